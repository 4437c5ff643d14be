package view

type Response[T any] struct {
	Data    T      `json:"data"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

func CreateResponse[T any](data T, err error, code, message string) Response[T] {
	resp := Response[T]{
		Data:    data,
		Code:    code,
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
	}

	return resp
}
