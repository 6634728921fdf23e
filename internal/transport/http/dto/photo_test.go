package dto

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoshare/internal/domain/models"
)

func TestNewPhotoUploadInput(t *testing.T) {
	t.Run("known fields", func(t *testing.T) {
		values := url.Values{
			"title":           {"Orion"},
			"imageCatogory":   {"DSLR"},
			"userUnivercity":  {"MIT"},
			"tags":            {"stars, moon"},
			"userPhonenumber": {"123", "456"},
		}

		input, err := NewPhotoUploadInput(values, &UploadedFile{Filename: "a.png"})
		require.NoError(t, err)

		assert.Equal(t, "Orion", input.Title)
		assert.Equal(t, "DSLR", input.ImageCategory)
		assert.Equal(t, "MIT", input.UserUniversity)
		assert.Equal(t, "123", input.UserPhonenumber)
		assert.Equal(t, "a.png", input.File.Filename)
	})

	t.Run("unknown fields rejected", func(t *testing.T) {
		values := url.Values{
			"title":      {"Orion"},
			"imageUrl":   {"https://evil.example.com/x.png"},
			"cloudinary": {"x"},
		}

		_, err := NewPhotoUploadInput(values, nil)

		var unknownErr *UnknownFieldsError
		require.ErrorAs(t, err, &unknownErr)
		assert.Equal(t, []string{"cloudinary", "imageUrl"}, unknownErr.Fields)
	})
}

func TestPhotoUploadInput_ToDomain(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		input := PhotoUploadInput{Title: "   "}

		photo := input.ToDomain()

		assert.Equal(t, models.DefaultTitle, photo.Title)
		assert.Equal(t, models.DefaultUserUniversity, photo.UserUniversity)
		assert.Equal(t, models.DefaultUploadedBy, photo.UploadedBy)
		assert.Equal(t, []string{}, photo.Tags)
		assert.Empty(t, photo.ImageURL)
	})

	t.Run("values kept", func(t *testing.T) {
		input := PhotoUploadInput{
			Title:      " Moon ",
			Tags:       "stars, moon , milkyway",
			UploadedBy: "jane",
		}

		photo := input.ToDomain()

		assert.Equal(t, "Moon", photo.Title)
		assert.Equal(t, []string{"stars", "moon", "milkyway"}, photo.Tags)
		assert.Equal(t, "jane", photo.UploadedBy)
	})
}
