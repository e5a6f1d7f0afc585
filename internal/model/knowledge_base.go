package model

// swagger:model ResourceCategory
type ResourceCategory struct {
	BaseModel
	Name        string `gorm:"size:100;unique;not null" json:"name"`
	Slug        string `gorm:"size:100;unique;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	ParentID    *uint  `gorm:"index" json:"parentId,omitempty"`
	OrderIndex  int    `gorm:"default:0" json:"orderIndex"`
	IsActive    bool   `gorm:"default:true" json:"isActive"`
	Icon        string `gorm:"size:50" json:"icon,omitempty"`
}

func (ResourceCategory) TableName() string {
	return "resource_categories"
}

// KnowledgeResource is a downloadable knowledge-base item (template, guide,
// checklist). Files live behind the storage service; FileURL is what clients
// fetch.
// swagger:model KnowledgeResource
type KnowledgeResource struct {
	BaseModel
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Content     string `gorm:"type:text" json:"-"` // full text, search only

	ResourceType string `gorm:"size:50;not null" json:"resourceType"`
	FileFormat   string `gorm:"size:20" json:"fileFormat,omitempty"`
	FilePath     string `gorm:"size:500" json:"-"`
	FileURL      string `gorm:"size:500" json:"fileUrl,omitempty"`
	FileSize     int64  `gorm:"default:0" json:"fileSizeBytes"`

	CategoryID uint  `gorm:"index;not null" json:"categoryId"`
	CourseID   *uint `gorm:"index" json:"courseId,omitempty"`
	ModuleID   *uint `gorm:"index" json:"moduleId,omitempty"`

	Slug       string `gorm:"size:200;unique" json:"slug,omitempty"`
	IsPublic   bool   `gorm:"default:false" json:"isPublic"`
	IsActive   bool   `gorm:"default:true" json:"isActive"`
	IsFeatured bool   `gorm:"default:false" json:"isFeatured"`
	OrderIndex int    `gorm:"default:0" json:"orderIndex"`

	DownloadCount int `gorm:"default:0" json:"downloadCount"`
	ViewCount     int `gorm:"default:0" json:"viewCount"`
}

func (KnowledgeResource) TableName() string {
	return "knowledge_resources"
}
