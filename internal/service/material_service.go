package service

import (
	"bytes"
	"context"
	"course_market_backend/internal/model"
	"course_market_backend/internal/repository"
	"course_market_backend/internal/util"
	"course_market_backend/pkg/logger"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MaterialService 课时附件上传与回收
type MaterialService struct {
	MaterialRepo *repository.MaterialRepository
	LessonRepo   *repository.LessonRepository
	Owner        *OwnershipService
	Storage      *StorageService
	Cleanup      *CleanupService
}

func NewMaterialService(materialRepo *repository.MaterialRepository, lessonRepo *repository.LessonRepository, owner *OwnershipService, storage *StorageService, cleanup *CleanupService) *MaterialService {
	return &MaterialService{
		MaterialRepo: materialRepo,
		LessonRepo:   lessonRepo,
		Owner:        owner,
		Storage:      storage,
		Cleanup:      cleanup,
	}
}

// Upload 转存附件并建档。lessonID 可为空（先传文件后挂课时的场景）。
// 类型按文件头嗅探判定，不信客户端报的 Content-Type
func (s *MaterialService) Upload(ctx context.Context, lessonID, filename, mimeType string, size int64, reader io.Reader, uploaderID uint, isAdmin bool) (*model.Material, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(reader, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	detected, err := util.ValidateMimeType(bytes.NewReader(head[:n]), util.AllowedMaterialMimes)
	if err != nil {
		return nil, fmt.Errorf("unsupported material type: %w", err)
	}
	if mimeType == "" {
		mimeType = detected
	}
	reader = io.MultiReader(bytes.NewReader(head[:n]), reader)

	lessonID = util.NormalizeID(lessonID)
	if lessonID != "" {
		if err := s.Owner.AuthorizeLesson(lessonID, uploaderID, isAdmin); err != nil {
			return nil, err
		}
	}

	materialID := model.GenerateUUID()
	storageKey := fmt.Sprintf("materials/%s%s", materialID, filepath.Ext(filename))
	fileURL, err := s.Storage.Upload(ctx, storageKey, reader, size, mimeType)
	if err != nil {
		return nil, err
	}

	material := &model.Material{
		UUIDBase:   model.UUIDBase{ID: materialID},
		LessonID:   lessonID,
		FileName:   filename,
		StorageKey: storageKey,
		FileURL:    fileURL,
		Size:       size,
		MimeType:   mimeType,
		UploaderID: uploaderID,
	}
	if err := s.MaterialRepo.Create(material); err != nil {
		// 建档失败时回收刚转存的对象
		if derr := s.Storage.Delete(ctx, storageKey); derr != nil {
			s.Cleanup.Enqueue(storageKey)
		}
		return nil, err
	}

	if material.LessonID != "" {
		s.LessonRepo.UpdateFields(material.LessonID, map[string]interface{}{
			"material_id": material.ID,
			"file_name":   material.FileName,
			"file_url":    material.FileURL,
		})
	}

	logger.Log.Info("material uploaded", zap.String("materialId", material.ID), zap.String("fileName", filename))
	return material, nil
}

// Delete 删除附件：远端对象尽力删，删不掉进死信队列；
// 引用它的课时负载一并清空。游离附件（未挂课时）只有上传人或管理员能删
func (s *MaterialService) Delete(ctx context.Context, materialID string, instructorID uint, isAdmin bool) error {
	materialID = util.NormalizeID(materialID)
	material, err := s.find(materialID)
	if err != nil {
		return err
	}

	if material.LessonID != "" {
		if err := s.Owner.AuthorizeLesson(material.LessonID, instructorID, isAdmin); err != nil {
			return err
		}
	} else if !isAdmin && material.UploaderID != instructorID {
		return util.ErrPermissionDenied
	}

	return s.remove(ctx, material)
}

func (s *MaterialService) find(materialID string) (*model.Material, error) {
	material, err := s.MaterialRepo.FindByID(materialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrMaterialNotFound
		}
		return nil, err
	}
	return material, nil
}

// removeByID 内容类型切换和课时删除的回收路径走这里，调用方已完成鉴权
func (s *MaterialService) removeByID(ctx context.Context, materialID string) error {
	material, err := s.find(util.NormalizeID(materialID))
	if err != nil {
		return err
	}
	return s.remove(ctx, material)
}

func (s *MaterialService) remove(ctx context.Context, material *model.Material) error {
	if err := s.Storage.Delete(ctx, material.StorageKey); err != nil {
		s.Cleanup.Enqueue(material.StorageKey)
	}

	if err := s.MaterialRepo.Delete(material.ID); err != nil {
		return err
	}

	if material.LessonID != "" {
		s.LessonRepo.UpdateFields(material.LessonID, model.ClearMaterialFields())
	}

	logger.Log.Info("material deleted", zap.String("materialId", material.ID))
	return nil
}
