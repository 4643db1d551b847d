// Package savedforms persists completed submissions as a single JSON array
// under a fixed key in a simple key-value store, mirroring how a browser
// app would keep them in local storage. The repository is observably
// append-only: no update or delete is exposed.
package savedforms

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/formforge/formforge/internal/form"
)

// StorageKey is the fixed key the submission list lives under.
const StorageKey = "savedForms"

// Repository reads and appends saved forms on a KV backing store.
type Repository struct {
	kv KV
}

// NewRepository wraps the given backing store.
func NewRepository(kv KV) *Repository {
	return &Repository{kv: kv}
}

// List returns all saved forms, oldest first. Corrupt or unreadable storage
// is treated as empty with a logged warning rather than an error; callers
// never see a storage read failure.
func (r *Repository) List() []form.SavedForm {
	data, ok, err := r.kv.Get(StorageKey)
	if err != nil {
		log.Printf("warning: reading saved forms: %v", err)
		return []form.SavedForm{}
	}
	if !ok {
		return []form.SavedForm{}
	}

	var forms []form.SavedForm
	if err := json.Unmarshal(data, &forms); err != nil {
		log.Printf("warning: corrupt saved forms store, treating as empty: %v", err)
		return []form.SavedForm{}
	}
	return forms
}

// Get returns the saved form with the given id.
func (r *Repository) Get(id string) (form.SavedForm, bool) {
	for _, f := range r.List() {
		if f.ID == id {
			return f, true
		}
	}
	return form.SavedForm{}, false
}

// Append adds a record to the end of the stored list. The whole list is
// read and rewritten; concurrent writers are not coordinated.
func (r *Repository) Append(f form.SavedForm) error {
	forms := append(r.List(), f)
	data, err := json.Marshal(forms)
	if err != nil {
		return fmt.Errorf("marshal saved forms: %w", err)
	}
	if err := r.kv.Set(StorageKey, data); err != nil {
		return fmt.Errorf("persist saved forms: %w", err)
	}
	return nil
}
