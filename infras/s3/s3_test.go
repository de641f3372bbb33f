package s3

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	tests := []struct {
		directory, fileName, want string
	}{
		{directory: "reports", fileName: "bookings-2025-08.csv", want: "reports/bookings-2025-08.csv"},
		{directory: "/reports/", fileName: "bookings.pdf", want: "reports/bookings.pdf"},
		{directory: "", fileName: "bookings.csv", want: "bookings.csv"},
		{directory: "reports", fileName: "../../etc/passwd", want: "reports/passwd"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, objectKey(tt.directory, tt.fileName))
	}
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://files.example.com/reports/bookings.csv", publicURL("https://files.example.com", "reports/bookings.csv"))
	assert.Equal(t, "https://files.example.com/reports/bookings.csv", publicURL("https://files.example.com/", "reports/bookings.csv"))
}
