package models

// Creative types accepted by the creative wizard. The type decides which
// file formats the upload step accepts.
const (
	CreativeBanner     = "banner"
	CreativeVideo      = "video"
	CreativeTagTracker = "tagtracker"
	CreativeKeyword    = "keyword"
)

// Creative is the wire representation of an ad creative.
type Creative struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	CreativeType string `json:"creative_type"`
	File         string `json:"file,omitempty"`
	Description  string `json:"description,omitempty"`
}

// AcceptTypes returns the MIME accept pattern for a creative type's file
// input. Unknown types accept nothing.
func AcceptTypes(creativeType string) string {
	switch creativeType {
	case CreativeBanner:
		return "image/*"
	case CreativeVideo:
		return "video/*"
	case CreativeTagTracker, CreativeKeyword:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return ""
	}
}
