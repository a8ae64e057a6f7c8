package dto

// ErrorResponse cuerpo de error HTTP: {success:false, error:"..."}.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Fail construye un ErrorResponse.
func Fail(msg string) ErrorResponse {
	return ErrorResponse{Success: false, Error: msg}
}

// DataResponse envoltorio de éxito para operaciones de un solo recurso.
type DataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// OK construye un DataResponse.
func OK(data any) DataResponse {
	return DataResponse{Success: true, Data: data}
}

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}
