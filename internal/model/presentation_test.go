package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresentationRecord_Skin(t *testing.T) {
	rec := PresentationRecord{
		Entry: PresentationEntry{
			Properties: []Property{{Name: TexturesProperty, Value: "tex", Signature: "sig"}},
		},
	}
	assert.Equal(t, NewSkin("tex", "sig"), rec.Skin())

	assert.True(t, PresentationRecord{}.Skin().IsDefault(), "record without textures property = default skin")
}

func TestPresentationRecord_Clone(t *testing.T) {
	rec := PresentationRecord{
		Entry: PresentationEntry{
			Username:   "guide",
			Properties: []Property{{Name: TexturesProperty, Value: "tex", Signature: "sig"}},
		},
	}

	cp := rec.Clone()
	assert.Equal(t, rec, cp)

	cp.Entry.Properties[0].Value = "other"
	assert.Equal(t, "tex", rec.Entry.Properties[0].Value, "clone must not share properties")

	assert.Nil(t, PresentationRecord{}.Clone().Entry.Properties)
}
