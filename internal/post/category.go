package post

import "errors"

// Category is one of the fixed board categories.
type Category string

const (
	CategoryFree       Category = "자유 게시판"
	CategoryDiscussion Category = "독서 토론"
	CategoryRecommend  Category = "책 추천"
	CategoryMeetup     Category = "모임 후기"
)

// ErrInvalidCategory is returned when a post names an unknown category.
var ErrInvalidCategory = errors.New("invalid category")

// Categories returns the fixed category set in display order.
func Categories() []Category {
	return []Category{CategoryFree, CategoryDiscussion, CategoryRecommend, CategoryMeetup}
}

// Valid reports whether c is a member of the fixed set.
func (c Category) Valid() bool {
	switch c {
	case CategoryFree, CategoryDiscussion, CategoryRecommend, CategoryMeetup:
		return true
	}
	return false
}
