package model

// A Blob represents an uploaded media stored in database.
type Blob struct {
	Base `msgpack:",inline" storm:"inline"`

	ContentType string `msgpack:"content_type"`
	Size        int    `msgpack:"size"`
	Data        []byte `msgpack:"data"`
}
