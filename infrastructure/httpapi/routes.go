package httpapi

import "net/http"

// Routes wires the REST surface onto a mux. The websocket endpoint is
// mounted separately by the server.
func Routes(mux *http.ServeMux, authHandlers *AuthHandlers, roomHandlers *RoomHandlers) {
	mux.HandleFunc("POST /api/register", authHandlers.Register)
	mux.HandleFunc("POST /api/login", authHandlers.Login)
	mux.HandleFunc("POST /api/rooms", roomHandlers.CreateRoom)
	mux.HandleFunc("GET /api/rooms/{id}", roomHandlers.GetRoom)
	mux.HandleFunc("GET /api/rooms/{id}/messages", roomHandlers.GetHistory)
}
