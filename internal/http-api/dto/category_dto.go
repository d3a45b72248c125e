package dto

type CreateCategoryRequest struct {
	Name      string `json:"name" binding:"required"`
	IconClass string `json:"icon_class"`
}

type UpdateCategoryRequest struct {
	Name      string `json:"name"`
	IconClass string `json:"icon_class"`
}
