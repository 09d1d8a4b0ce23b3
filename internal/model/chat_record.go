package model

import "time"

// ChatRecord is one persisted question/answer pair, scoped to the owning user
// and keyed by the uploaded file's name. The column stays pdf_name for every
// format; history groups by filename, not by content.
type ChatRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_user_doc" json:"user_id"`
	PDFName   string    `gorm:"column:pdf_name;size:256;not null;index:idx_user_doc" json:"pdf_name"`
	Question  string    `gorm:"type:text;not null" json:"question"`
	Answer    string    `gorm:"type:text;not null" json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}
