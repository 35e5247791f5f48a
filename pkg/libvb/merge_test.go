package libvb_test

import (
	"testing"

	"github.com/mdouchement/visionboard/pkg/libvb"
	"github.com/stretchr/testify/assert"
)

func TestMergeTopLevel(t *testing.T) {
	base := `{"items":[{"id":"1"},{"id":"2"}],"headerConfig":{"title":"t","subtitle":"s","hashtags":[]},"chatMessages":[]}`
	patch := `{"items":[{"id":"3"}],"lastUpdated":42}`

	merged, err := libvb.MergeTopLevel([]byte(base), []byte(patch))
	assert.NoError(t, err)
	assert.JSONEq(t, `{"items":[{"id":"3"}],"headerConfig":{"title":"t","subtitle":"s","hashtags":[]},"chatMessages":[],"lastUpdated":42}`, string(merged))
}

func TestMergeTopLevel_NestedObjectsAreReplaced(t *testing.T) {
	base := `{"headerConfig":{"title":"t","subtitle":"s","hashtags":["#a"]}}`
	patch := `{"headerConfig":{"title":"new"}}`

	merged, err := libvb.MergeTopLevel([]byte(base), []byte(patch))
	assert.NoError(t, err)
	assert.JSONEq(t, `{"headerConfig":{"title":"new"}}`, string(merged))
}

func TestMergeTopLevel_EmptyBase(t *testing.T) {
	merged, err := libvb.MergeTopLevel(nil, []byte(`{"items":[]}`))
	assert.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(merged))
}

func TestMergeTopLevel_Errors(t *testing.T) {
	_, err := libvb.MergeTopLevel([]byte(`[]`), []byte(`{}`))
	assert.Error(t, err)

	_, err = libvb.MergeTopLevel([]byte(`{}`), []byte(`"items"`))
	assert.Error(t, err)

	_, err = libvb.MergeTopLevel([]byte(`{}`), []byte(`{`))
	assert.Error(t, err)
}

func TestPatch(t *testing.T) {
	payload, err := libvb.Patch(&libvb.Document{})
	assert.NoError(t, err)

	doc, err := libvb.Decode(payload)
	assert.NoError(t, err)
	assert.NotNil(t, doc.Items)
	assert.NotNil(t, doc.ChatMessages)
	assert.NotZero(t, doc.LastUpdated)
}
