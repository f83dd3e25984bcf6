package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	assert.Equal(t, "walk", sanitize("walk"))
	assert.Equal(t, "IMG_0042.jpg", sanitize("IMG_0042.jpg"))
	assert.Equal(t, "left_mirror__cracked_.jpg", sanitize("left mirror (cracked).jpg"))
	assert.Equal(t, "INS-1756339200000-A1B2C3", sanitize("INS-1756339200000-A1B2C3"))
	assert.Equal(t, ".._.._etc_passwd", sanitize("../../etc/passwd"))
}

func TestFolderPrefix(t *testing.T) {
	assert.Equal(t, "inspections/INS-1-A/walk", folderPrefix("INS-1-A", "walk"))
	assert.Equal(t, "inspections/INS-1-A/repair_", folderPrefix("INS-1-A", "repair/"))
}
