package dto

import "ads-online/internal/domain"

type Ad struct {
	Author int64  `json:"author"`
	Image  string `json:"image"`
	PK     int64  `json:"pk"`
	Price  int    `json:"price"`
	Title  string `json:"title"`
}

type Ads struct {
	Count   int  `json:"count"`
	Results []Ad `json:"results"`
}

type ExtendedAd struct {
	PK              int64  `json:"pk"`
	AuthorFirstName string `json:"authorFirstName"`
	AuthorLastName  string `json:"authorLastName"`
	Description     string `json:"description"`
	Email           string `json:"email"`
	Image           string `json:"image"`
	Phone           string `json:"phone"`
	Price           int    `json:"price"`
	Title           string `json:"title"`
}

type CreateOrUpdateAd struct {
	Title       string `json:"title"       binding:"required,min=4,max=32"`
	Price       *int   `json:"price"       binding:"required,min=0,max=10000000"`
	Description string `json:"description" binding:"required,min=8,max=64"`
}

func ToAd(a domain.Ad) Ad {
	return Ad{Author: a.AuthorID, Image: a.Image, PK: a.ID, Price: a.Price, Title: a.Title}
}

func ToAds(list []domain.Ad) Ads {
	out := Ads{Count: len(list), Results: make([]Ad, 0, len(list))}
	for _, a := range list {
		out.Results = append(out.Results, ToAd(a))
	}
	return out
}

// ToExtendedAd 需要 a.Author 已预加载
func ToExtendedAd(a domain.Ad) ExtendedAd {
	return ExtendedAd{
		PK:              a.ID,
		AuthorFirstName: a.Author.FirstName,
		AuthorLastName:  a.Author.LastName,
		Description:     a.Description,
		Email:           a.Author.Username,
		Image:           a.Image,
		Phone:           a.Author.Phone,
		Price:           a.Price,
		Title:           a.Title,
	}
}

// Apply 只覆盖 title/price/description
func (in CreateOrUpdateAd) Apply(a *domain.Ad) {
	a.Title = in.Title
	if in.Price != nil {
		a.Price = *in.Price
	}
	a.Description = in.Description
}
