package form

// SavedForm is one durable record of a completed submission, including the
// question set it was answered against. Answers holds the cleaned answer
// map: file values are excluded and replaced by image-store ids in
// ImageMap. CreatedAt is Unix milliseconds. Records are never mutated after
// creation.
type SavedForm struct {
	ID        string         `json:"id"`
	CreatedAt int64          `json:"createdAt"`
	Questions QuestionList   `json:"questions"`
	Answers   map[int]Value  `json:"answers"`
	ImageMap  map[int]string `json:"imageMap"`
}
