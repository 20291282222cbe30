package dto

// PresignUploadResponse carries a presigned PUT URL plus the object key
// the client stores as the item's image correlation id.
type PresignUploadResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// PresignDownloadResponse carries a presigned GET URL.
type PresignDownloadResponse struct {
	URL string `json:"url"`
}
