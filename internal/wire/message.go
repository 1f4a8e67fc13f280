// Package wire implements the Rubus wire codec: message framing, the
// request/response header grammar, and the binary converters used to
// serialize PlaybackList, MediaInfo, and MediaFetch bodies.
package wire

// RequestType names the three request variants a client may frame.
type RequestType string

const (
	RequestTypeList  RequestType = "LIST"
	RequestTypeInfo  RequestType = "INFO"
	RequestTypeFetch RequestType = "FETCH"
)

// ResponseType names the four response variants a server may frame.
type ResponseType string

const (
	ResponseTypeOK           ResponseType = "OK"
	ResponseTypeBadRequest   ResponseType = "BAD_REQUEST"
	ResponseTypeServerError  ResponseType = "SERVER_ERROR"
	ResponseTypeUnauthorized ResponseType = "UNAUTHORIZED"
)

// Logical body type names carried in the serialized-object header field.
// These are stable names, independent of any language runtime's class
// naming.
const (
	LogicalTypePlaybackList = "PlaybackList"
	LogicalTypeMediaInfo    = "PlaybackInfo"
	LogicalTypeMediaFetch   = "MediaFetch"
)

// Header field keys. Unknown field keys encountered while parsing are
// preserved on the Frame but otherwise ignored, to stay
// forward-compatible with future fields.
const (
	fieldRequestType      = "request-type"
	fieldResponseType     = "response-type"
	fieldMediaID          = "media-id"
	fieldStartingPiece    = "starting-playback-piece"
	fieldTotalPieces      = "total-playback-pieces"
	fieldAuthToken        = "authentication-token"
	fieldSerializedObject = "serialized-object"
	fieldMessage          = "message"
	fieldBodyLength       = "body-length"
)
