package model

// DiaryEntry is one dated page of the book. Content, ideas and the
// embedded image may all be empty, a blank page is a valid entry.
// ImageURL holds a self-contained data URL, never a file reference.
type DiaryEntry struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Content   string `json:"content"`
	Ideas     string `json:"ideas"`
	ImageURL  string `json:"image_url"`
	CreatedAt int64  `json:"created_at"`
}

func (e DiaryEntry) HasImage() bool {
	return e.ImageURL != ""
}
