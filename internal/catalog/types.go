package catalog

// Species 目录服务中的物种/品种条目，只读，每次渲染都重新获取
type Species struct {
	ID                   any           `json:"id,omitempty"`
	CommonName           string        `json:"Common_Name,omitempty"`
	Genus                *Genus        `json:"Genus,omitempty"`
	Species              string        `json:"Species,omitempty"`
	Subspecies           string        `json:"Subspecies,omitempty"`
	Variety              string        `json:"Variety,omitempty"`
	CultivarGroup        string        `json:"Cultivar_group,omitempty"`
	CommunityDescription string        `json:"Community_Description,omitempty"`
	SKU                  string        `json:"SKU,omitempty"`
	PINumber             string        `json:"PI_Number,omitempty"`
	Category             *Category     `json:"Category,omitempty"`
	Gallery              []GalleryItem `json:"Gallery,omitempty"`
	Picture              string        `json:"Picture,omitempty"`
}

type Genus struct {
	Genus string `json:"Genus,omitempty"`
}

type Category struct {
	Name string `json:"Name,omitempty"`
}

// GalleryItem 图库中的一张图片
type GalleryItem struct {
	FileID string `json:"directus_files_id,omitempty"`
}

// ImageID 优先使用图库中的第一张图片，其次使用单独的 Picture
func (s *Species) ImageID() string {
	for _, item := range s.Gallery {
		if item.FileID != "" {
			return item.FileID
		}
	}
	return s.Picture
}

// itemsResponse 目录服务 /items 接口的响应
type itemsResponse struct {
	Data []Species `json:"data"`
}
