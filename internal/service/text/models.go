package text

import "time"

// Model: typing_texts 테이블과 매핑되는 GORM 모델입니다.
type Model struct {
	ID       int     `gorm:"primaryKey;column:id"`
	Genre    string  `gorm:"column:genre;size:50;not null"`
	Title    string  `gorm:"column:title;size:100;not null"`
	Author   *string `gorm:"column:author;size:100"`
	Content  string  `gorm:"column:content;type:text;not null"`
	ImageURL *string `gorm:"column:image_url;size:500"`
}

// TableName: GORM 모델이 매핑될 데이터베이스 테이블 이름을 반환한다. ("typing_texts")
func (Model) TableName() string {
	return "typing_texts"
}

// FavoriteModel: 유저-글 찜 관계 (favorites 정션 테이블)
type FavoriteModel struct {
	UserID    int       `gorm:"primaryKey;column:user_id"`
	TextID    int       `gorm:"primaryKey;column:text_id"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName: GORM 모델이 매핑될 데이터베이스 테이블 이름을 반환한다. ("favorites")
func (FavoriteModel) TableName() string {
	return "favorites"
}

// Text: API 응답용 글 정보
type Text struct {
	ID       int     `json:"id"`
	Genre    string  `json:"genre"`
	Title    string  `json:"title"`
	Author   *string `json:"author"`
	Content  string  `json:"content"`
	ImageURL *string `json:"image_url"`
}

// ToText: 모델에서 API 응답용 글 정보를 만든다.
func ToText(m *Model) *Text {
	if m == nil {
		return nil
	}
	return &Text{
		ID:       m.ID,
		Genre:    m.Genre,
		Title:    m.Title,
		Author:   m.Author,
		Content:  m.Content,
		ImageURL: m.ImageURL,
	}
}
