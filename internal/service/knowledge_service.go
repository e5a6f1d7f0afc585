package service

import (
	"errors"

	"qryti_learn_backend/internal/model"
	"qryti_learn_backend/internal/repository"
	"qryti_learn_backend/internal/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type KnowledgeService struct {
	repo    *repository.KnowledgeRepository
	storage *StorageService
	events  EventSink
	logger  *zap.Logger
}

func NewKnowledgeService(repo *repository.KnowledgeRepository, storage *StorageService, events EventSink, logger *zap.Logger) *KnowledgeService {
	return &KnowledgeService{repo: repo, storage: storage, events: events, logger: logger}
}

func (s *KnowledgeService) ListCategories() ([]model.ResourceCategory, error) {
	return s.repo.ListCategories()
}

func (s *KnowledgeService) ListResources(filter repository.ResourceFilter) ([]model.KnowledgeResource, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	return s.repo.ListResources(filter)
}

func (s *KnowledgeService) GetResource(id uint) (*model.KnowledgeResource, error) {
	resource, err := s.repo.FindResourceByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrResourceNotFound
		}
		return nil, err
	}
	if err := s.repo.IncrementViewCount(id); err != nil {
		s.logger.Debug("view count update failed", zap.Uint("resourceId", id), zap.Error(err))
	}
	return resource, nil
}

// ResolveDownload returns the URL a client should fetch the file from and
// counts the download.
func (s *KnowledgeService) ResolveDownload(userID, id uint) (string, error) {
	resource, err := s.repo.FindResourceByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", util.ErrResourceNotFound
		}
		return "", err
	}

	url := resource.FileURL
	if url == "" && resource.FilePath != "" {
		url = s.storage.GetURL(resource.FilePath)
	}
	if url == "" {
		return "", util.ErrResourceNotFound
	}

	if err := s.repo.IncrementDownloadCount(id); err != nil {
		s.logger.Debug("download count update failed", zap.Uint("resourceId", id), zap.Error(err))
	}
	s.events.Record(userID, model.EventResourceDownloaded, map[string]interface{}{
		"resource_id": id,
		"title":       resource.Title,
	})
	return url, nil
}
