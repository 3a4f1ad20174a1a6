// Package memrepo 内存版仓储，供 service / handler 测试使用
package memrepo

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"ads-online/internal/domain"
)

var ErrDuplicate = errors.New("duplicate key value violates unique constraint")

type state struct {
	users    map[int64]domain.User
	ads      map[int64]domain.Ad
	comments map[int64]domain.Comment
	images   map[int64]domain.Image
	seq      int64
}

func (s *state) clone() *state {
	c := &state{
		users:    make(map[int64]domain.User, len(s.users)),
		ads:      make(map[int64]domain.Ad, len(s.ads)),
		comments: make(map[int64]domain.Comment, len(s.comments)),
		images:   make(map[int64]domain.Image, len(s.images)),
		seq:      s.seq,
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.ads {
		c.ads[k] = v
	}
	for k, v := range s.comments {
		c.comments[k] = v
	}
	for k, v := range s.images {
		v.Data = bytes.Clone(v.Data)
		c.images[k] = v
	}
	return c
}

// Store 实现 domain.Transactor；WithinTx 出错时整体回滚
type Store struct {
	mu sync.Mutex
	st *state
	domain.Repos

	// FailOn 命中的操作名（如 "ads.create"）返回 ErrInjected，用于测试部分失败
	FailOn map[string]bool
}

var ErrInjected = errors.New("injected failure")

func New() *Store {
	s := &Store{st: &state{
		users:    map[int64]domain.User{},
		ads:      map[int64]domain.Ad{},
		comments: map[int64]domain.Comment{},
		images:   map[int64]domain.Image{},
	}, FailOn: map[string]bool{}}
	s.Repos = domain.Repos{
		Users:    userRepo{s},
		Ads:      adRepo{s},
		Comments: commentRepo{s},
		Images:   imageRepo{s},
	}
	return s
}

func (s *Store) WithinTx(ctx context.Context, fn func(r domain.Repos) error) error {
	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	if err := fn(s.Repos); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) do(op string, fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailOn[op] {
		return ErrInjected
	}
	return fn(s.st)
}

func (s *Store) nextID(st *state) int64 {
	st.seq++
	return st.seq
}

// Count 测试断言用
func (s *Store) Count() (users, ads, comments, images int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.users), len(s.st.ads), len(s.st.comments), len(s.st.images)
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *domain.User) error {
	return r.s.do("users.create", func(st *state) error {
		for _, other := range st.users {
			if other.Username == u.Username || other.Phone == u.Phone {
				return ErrDuplicate
			}
		}
		u.ID = r.s.nextID(st)
		st.users[u.ID] = *u
		return nil
	})
}

func (r userRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	var out *domain.User
	err := r.s.do("users.find", func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r userRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	var out *domain.User
	err := r.s.do("users.find", func(st *state) error {
		for _, u := range st.users {
			if u.Username == username {
				u := u
				out = &u
			}
		}
		return nil
	})
	return out, err
}

func (r userRepo) List(_ context.Context, offset, limit int, q string) ([]domain.User, int64, error) {
	var all []domain.User
	err := r.s.do("users.list", func(st *state) error {
		for _, u := range st.users {
			if q == "" || strings.Contains(u.Username, q) || strings.Contains(u.FirstName, q) || strings.Contains(u.LastName, q) {
				all = append(all, u)
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	if offset > len(all) {
		offset = len(all)
	}
	end := min(offset+limit, len(all))
	return all[offset:end], total, nil
}

func (r userRepo) Update(_ context.Context, u *domain.User) error {
	return r.s.do("users.update", func(st *state) error {
		st.users[u.ID] = *u
		return nil
	})
}

type adRepo struct{ s *Store }

func (r adRepo) Create(_ context.Context, a *domain.Ad) error {
	return r.s.do("ads.create", func(st *state) error {
		a.ID = r.s.nextID(st)
		row := *a
		row.Author = domain.User{}
		st.ads[a.ID] = row
		return nil
	})
}

func (r adRepo) FindByID(_ context.Context, id int64) (*domain.Ad, error) {
	var out *domain.Ad
	err := r.s.do("ads.find", func(st *state) error {
		if a, ok := st.ads[id]; ok {
			a.Author = st.users[a.AuthorID]
			out = &a
		}
		return nil
	})
	return out, err
}

func (r adRepo) list(filter func(domain.Ad) bool) ([]domain.Ad, error) {
	out := []domain.Ad{}
	err := r.s.do("ads.list", func(st *state) error {
		for _, a := range st.ads {
			if filter(a) {
				out = append(out, a)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r adRepo) List(context.Context) ([]domain.Ad, error) {
	return r.list(func(domain.Ad) bool { return true })
}

func (r adRepo) ListByAuthor(_ context.Context, authorID int64) ([]domain.Ad, error) {
	return r.list(func(a domain.Ad) bool { return a.AuthorID == authorID })
}

func (r adRepo) Update(_ context.Context, a *domain.Ad) error {
	return r.s.do("ads.update", func(st *state) error {
		row := *a
		row.Author = domain.User{}
		st.ads[a.ID] = row
		return nil
	})
}

func (r adRepo) Delete(_ context.Context, id int64) error {
	return r.s.do("ads.delete", func(st *state) error {
		delete(st.ads, id)
		return nil
	})
}

type commentRepo struct{ s *Store }

func (r commentRepo) Create(_ context.Context, c *domain.Comment) error {
	return r.s.do("comments.create", func(st *state) error {
		c.ID = r.s.nextID(st)
		row := *c
		row.Author, row.Ad = domain.User{}, nil
		st.comments[c.ID] = row
		return nil
	})
}

func (r commentRepo) FindByID(_ context.Context, id int64) (*domain.Comment, error) {
	var out *domain.Comment
	err := r.s.do("comments.find", func(st *state) error {
		if c, ok := st.comments[id]; ok {
			c.Author = st.users[c.AuthorID]
			out = &c
		}
		return nil
	})
	return out, err
}

func (r commentRepo) ListByAd(_ context.Context, adID int64) ([]domain.Comment, error) {
	out := []domain.Comment{}
	err := r.s.do("comments.list", func(st *state) error {
		for _, c := range st.comments {
			if c.AdID == adID {
				c.Author = st.users[c.AuthorID]
				out = append(out, c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r commentRepo) Update(_ context.Context, c *domain.Comment) error {
	return r.s.do("comments.update", func(st *state) error {
		row := *c
		row.Author, row.Ad = domain.User{}, nil
		st.comments[c.ID] = row
		return nil
	})
}

func (r commentRepo) Delete(_ context.Context, id int64) error {
	return r.s.do("comments.delete", func(st *state) error {
		delete(st.comments, id)
		return nil
	})
}

func (r commentRepo) DeleteByAd(_ context.Context, adID int64) (int64, error) {
	var n int64
	err := r.s.do("comments.delete", func(st *state) error {
		for id, c := range st.comments {
			if c.AdID == adID {
				delete(st.comments, id)
				n++
			}
		}
		return nil
	})
	return n, err
}

type imageRepo struct{ s *Store }

func (r imageRepo) Create(_ context.Context, img *domain.Image) error {
	return r.s.do("images.create", func(st *state) error {
		img.ID = r.s.nextID(st)
		st.images[img.ID] = domain.Image{ID: img.ID, Data: bytes.Clone(img.Data)}
		return nil
	})
}

func (r imageRepo) FindByID(_ context.Context, id int64) (*domain.Image, error) {
	var out *domain.Image
	err := r.s.do("images.find", func(st *state) error {
		if img, ok := st.images[id]; ok {
			out = &domain.Image{ID: img.ID, Data: bytes.Clone(img.Data)}
		}
		return nil
	})
	return out, err
}

func (r imageRepo) Update(_ context.Context, img *domain.Image) error {
	return r.s.do("images.update", func(st *state) error {
		st.images[img.ID] = domain.Image{ID: img.ID, Data: bytes.Clone(img.Data)}
		return nil
	})
}

func (r imageRepo) Delete(_ context.Context, id int64) error {
	return r.s.do("images.delete", func(st *state) error {
		delete(st.images, id)
		return nil
	})
}
