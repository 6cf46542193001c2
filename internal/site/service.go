package site

import (
	"errors"
	"net/url"

	"pasteleria-backend/pkg/models"
)

var ErrBranchNotFound = errors.New("branch not found")

// shareWidth is the delivery width used for images embedded in inquiries
const shareWidth = 1200

// ShareURLer builds shareable delivery URLs for gallery images
type ShareURLer interface {
	ShareURL(imageURL, publicID string, width int) string
}

// Gallery resolves gallery items by id
type Gallery interface {
	Item(id string) (*models.PhotoItem, error)
}

// Service answers branch listings and builds per-item WhatsApp inquiry
// links for the configured branches
type Service struct {
	config  Config
	media   ShareURLer
	gallery Gallery
}

func NewService(config Config, media ShareURLer, gallery Gallery) *Service {
	return &Service{
		config:  config,
		media:   media,
		gallery: gallery,
	}
}

// Branches returns the configured store branches
func (s *Service) Branches() []Branch {
	branches := make([]Branch, len(s.config.Branches))
	copy(branches, s.config.Branches)
	return branches
}

// Branch looks up a branch by id
func (s *Service) Branch(id string) (Branch, error) {
	for _, b := range s.config.Branches {
		if b.ID == id {
			return b, nil
		}
	}
	return Branch{}, ErrBranchNotFound
}

// InquiryLink builds the wa.me link that opens a chat with the branch,
// pre-filled with the greeting and a shareable image URL for the item
func (s *Service) InquiryLink(branchID, itemID string) (string, error) {
	branch, err := s.Branch(branchID)
	if err != nil {
		return "", err
	}

	item, err := s.gallery.Item(itemID)
	if err != nil {
		return "", err
	}

	share := s.media.ShareURL(item.ImageURL, item.PublicID, shareWidth)
	message := s.config.Greeting + "\n" + share

	return "https://wa.me/" + branch.Phone + "?text=" + url.QueryEscape(message), nil
}
