package mailer_test

import (
	"testing"

	"github.com/santhosharam/kottravai-backend/internal/mailer"

	"github.com/stretchr/testify/assert"
)

func TestReplyTo(t *testing.T) {
	testCases := []struct {
		category mailer.Category
		want     string
	}{
		{category: mailer.CategoryOrder, want: "sales@kottravai.in"},
		{category: mailer.CategoryB2B, want: "b2b@kottravai.in"},
		{category: mailer.CategoryContact, want: "support@kottravai.in"},
		{category: mailer.CategorySubscribe, want: "info@kottravai.in"},
		{category: mailer.CategoryCustom, want: "sales@kottravai.in"},
		{category: mailer.Category(""), want: "support@kottravai.in"},
		{category: mailer.Category("unknown"), want: "support@kottravai.in"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.category), func(t *testing.T) {
			assert.Equal(t, tc.want, mailer.ReplyTo(tc.category))
		})
	}
}
