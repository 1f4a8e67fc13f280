package wire

import "fmt"

// Response is the parsed, typed form of a response Frame.
type Response struct {
	Type             ResponseType
	SerializedObject string // logical body type name, empty when no body
	Message          string // optional human-readable detail for error responses
	Body             []byte
}

// ParseResponse interprets a Frame as a Response.
func ParseResponse(f *Frame) (*Response, error) {
	typeStr, ok := f.Get(fieldResponseType)
	if !ok {
		return nil, &MalformedFrameError{Err: fmt.Errorf("missing %s field", fieldResponseType)}
	}
	resp := &Response{
		Type: ResponseType(typeStr),
		Body: f.Body,
	}
	if obj, ok := f.Get(fieldSerializedObject); ok {
		resp.SerializedObject = obj
	}
	if msg, ok := f.Get(fieldMessage); ok {
		resp.Message = msg
	}
	return resp, nil
}

// Frame renders the Response back into wire form.
func (r *Response) Frame() *Frame {
	f := &Frame{Body: r.Body}
	f.Set(fieldResponseType, string(r.Type))
	if r.SerializedObject != "" {
		f.Set(fieldSerializedObject, r.SerializedObject)
	}
	if r.Message != "" {
		f.Set(fieldMessage, r.Message)
	}
	return f
}
