package models

import (
	"time"
)

// Document is the metadata of one uploaded file. The content lives in storage
// under Filename.
type Document struct {
	ID             uint      `gorm:"primaryKey"`
	UserID         uint      `gorm:"not null;index"`
	Title          string    `gorm:"size:200;not null"`
	Description    *string   `gorm:"type:text"`
	Filename       string    `gorm:"size:255;not null"`
	UploadDatetime time.Time `gorm:"not null;index"`
	IsViewed       bool      `gorm:"not null;default:false"`
	AdminComment   *string   `gorm:"type:text"`
}

// DocumentView is what an owner sees when listing their own documents.
type DocumentView struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	UploadDatetime time.Time `json:"upload_datetime"`
	IsViewed       bool      `json:"is_viewed"`
	AdminComment   *string   `json:"admin_comment"`
	Filename       string    `json:"filename"`
}

// AdminDocumentView is a document joined with its uploader's display name.
type AdminDocumentView struct {
	ID             uint      `json:"id"`
	UserName       string    `json:"user_name"`
	Title          string    `json:"title"`
	UploadDatetime time.Time `json:"upload_datetime"`
	Filename       string    `json:"filename"`
	IsViewed       bool      `json:"is_viewed"`
	AdminComment   *string   `json:"admin_comment"`
}

// View projects the document for its owner.
func (d Document) View() DocumentView {
	return DocumentView{
		ID:             d.ID,
		Title:          d.Title,
		UploadDatetime: d.UploadDatetime.UTC(),
		IsViewed:       d.IsViewed,
		AdminComment:   d.AdminComment,
		Filename:       d.Filename,
	}
}

// AdminView projects the document for the review listing.
func (d Document) AdminView(userName string) AdminDocumentView {
	return AdminDocumentView{
		ID:             d.ID,
		UserName:       userName,
		Title:          d.Title,
		UploadDatetime: d.UploadDatetime.UTC(),
		Filename:       d.Filename,
		IsViewed:       d.IsViewed,
		AdminComment:   d.AdminComment,
	}
}
