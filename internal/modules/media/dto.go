package media

type DeleteRequest struct {
	PublicID string `json:"publicId"`
}
