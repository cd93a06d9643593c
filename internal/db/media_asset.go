package db

import "time"

// MediaAsset 记录已上传并转码的图片元数据，文件本身保存在对象存储中。
type MediaAsset struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Title     string `gorm:"size:200;not null"`
	PublicID  string `gorm:"size:255;uniqueIndex;not null"`
	SecureURL string `gorm:"size:500"`
	WebURL    string `gorm:"size:500"`
	ThumbURL  string `gorm:"size:500"`
	BytesSize int
	Width     int
	Height    int
	Format    string `gorm:"size:10"`
	TagsCSV   string `gorm:"size:500"`
	IsActive  bool   `gorm:"not null;default:true;index"`
	SortOrder int
}
