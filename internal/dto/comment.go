package dto

import "ads-online/internal/domain"

type Comment struct {
	Author          int64   `json:"author"`
	AuthorImage     *string `json:"authorImage"`
	AuthorFirstName string  `json:"authorFirstName"`
	CreatedAt       int64   `json:"createdAt"`
	PK              int64   `json:"pk"`
	Text            string  `json:"text"`
}

type Comments struct {
	Count   int       `json:"count"`
	Results []Comment `json:"results"`
}

type CreateOrUpdateComment struct {
	Text string `json:"text" binding:"required,min=8,max=64"`
}

// ToComment 需要 c.Author 已预加载
func ToComment(c domain.Comment) Comment {
	return Comment{
		Author:          c.AuthorID,
		AuthorImage:     c.Author.Image,
		AuthorFirstName: c.Author.FirstName,
		CreatedAt:       c.CreatedAt,
		PK:              c.ID,
		Text:            c.Text,
	}
}

func ToComments(list []domain.Comment) Comments {
	out := Comments{Count: len(list), Results: make([]Comment, 0, len(list))}
	for _, c := range list {
		out.Results = append(out.Results, ToComment(c))
	}
	return out
}
