package dto

type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// SocketMessagePayload is the data field of a send-message frame.
type SocketMessagePayload struct {
	Content string `json:"content"`
}
