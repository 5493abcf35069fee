package knowledge

import "time"

// File is one uploaded reference file after text extraction. Files are
// independent of documents; a document records only the file names it was
// generated against. Size/type admission checks happen upstream, before
// content reaches this package.
type File struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Size      int64     `json:"size"`
	Type      string    `json:"type"`
}
