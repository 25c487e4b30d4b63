package ebitensurface

import (
	"testing"

	"github.com/spreadingweeds/extension/internal/render"
	"github.com/stretchr/testify/assert"
)

func TestSurface_MissingTexture(t *testing.T) {
	s := New(nil, nil)

	err := s.Draw(render.ObjectSprite(3), render.DrawOptions{Scale: 4, Alpha: 1})
	assert.ErrorIs(t, err, render.ErrMissingTexture)
	assert.Contains(t, err.Error(), render.TextureObjects)
}
