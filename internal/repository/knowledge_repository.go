package repository

import (
	"qryti_learn_backend/internal/model"

	"gorm.io/gorm"
)

type KnowledgeRepository struct {
	DB *gorm.DB
}

func NewKnowledgeRepository(db *gorm.DB) *KnowledgeRepository {
	return &KnowledgeRepository{DB: db}
}

func (r *KnowledgeRepository) ListCategories() ([]model.ResourceCategory, error) {
	var categories []model.ResourceCategory
	err := r.DB.Where("is_active = ?", true).
		Order("order_index asc, name asc").
		Find(&categories).Error
	return categories, err
}

type ResourceFilter struct {
	CategoryID uint
	CourseID   uint
	Search     string
	Featured   bool
	Page       int
	Limit      int
}

func (r *KnowledgeRepository) ListResources(filter ResourceFilter) ([]model.KnowledgeResource, int64, error) {
	query := r.DB.Model(&model.KnowledgeResource{}).Where("is_active = ?", true)

	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.CourseID != 0 {
		query = query.Where("course_id = ?", filter.CourseID)
	}
	if filter.Featured {
		query = query.Where("is_featured = ?", true)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ? OR content LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		offset := (filter.Page - 1) * filter.Limit
		if offset < 0 {
			offset = 0
		}
		query = query.Offset(offset).Limit(filter.Limit)
	}

	var resources []model.KnowledgeResource
	err := query.Order("order_index asc, created_at desc").Find(&resources).Error
	return resources, total, err
}

func (r *KnowledgeRepository) FindResourceByID(id uint) (*model.KnowledgeResource, error) {
	var resource model.KnowledgeResource
	err := r.DB.First(&resource, id).Error
	if err != nil {
		return nil, err
	}
	return &resource, nil
}

func (r *KnowledgeRepository) IncrementDownloadCount(id uint) error {
	return r.DB.Model(&model.KnowledgeResource{}).Where("id = ?", id).
		UpdateColumn("download_count", gorm.Expr("download_count + 1")).Error
}

func (r *KnowledgeRepository) IncrementViewCount(id uint) error {
	return r.DB.Model(&model.KnowledgeResource{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}
