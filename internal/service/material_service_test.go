package service

import (
	"bytes"
	"context"
	"course_market_backend/internal/model"
	"course_market_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMaterialUploadAttachesToLesson(t *testing.T) {
	f := newLessonFixture(t)
	lesson := seedLesson(t, f.db, model.ContentMaterial)

	payload := []byte("lecture notes in plain text")
	material, err := f.materialSvc.Upload(context.Background(), lesson.ID, "notes.txt", "text/plain",
		int64(len(payload)), bytes.NewReader(payload), 1, false)
	require.NoError(t, err)
	assert.NotEmpty(t, material.ID)
	assert.Equal(t, 1, f.provider.uploadCount())

	got, err := f.lessons.FindByID(lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, material.ID, got.MaterialID)
	assert.Equal(t, "notes.txt", got.FileName)
	assert.NotEmpty(t, got.FileURL)
}

// 类型按内容嗅探判定，客户端报什么 Content-Type 不作数
func TestMaterialUploadRejectsBySniffedContent(t *testing.T) {
	f := newLessonFixture(t)
	lesson := seedLesson(t, f.db, model.ContentMaterial)

	payload := make([]byte, 512)
	_, err := f.materialSvc.Upload(context.Background(), lesson.ID, "fake.pdf", "application/pdf",
		int64(len(payload)), bytes.NewReader(payload), 1, false)
	require.Error(t, err)

	assert.Zero(t, f.provider.uploadCount())
	got, err := f.lessons.FindByID(lesson.ID)
	require.NoError(t, err)
	assert.Empty(t, got.MaterialID)
}

func TestMaterialDeleteClearsLessonPayload(t *testing.T) {
	f := newLessonFixture(t)
	lesson := seedLesson(t, f.db, model.ContentMaterial)

	payload := []byte("slides as plain text")
	material, err := f.materialSvc.Upload(context.Background(), lesson.ID, "slides.txt", "text/plain",
		int64(len(payload)), bytes.NewReader(payload), 1, false)
	require.NoError(t, err)

	// 外人删不掉
	err = f.materialSvc.Delete(context.Background(), material.ID, 2, false)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	require.NoError(t, f.materialSvc.Delete(context.Background(), material.ID, 1, false))
	assert.Equal(t, 1, f.provider.deleteCount())

	_, err = f.materials.FindByID(material.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	got, err := f.lessons.FindByID(lesson.ID)
	require.NoError(t, err)
	assert.Empty(t, got.MaterialID)
	assert.Empty(t, got.FileName)
	assert.Empty(t, got.FileURL)
}
