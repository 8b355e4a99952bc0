package proto

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Field names used inside request and document structs.
const (
	FieldCollection = "collection"
	FieldID         = "id"
	FieldData       = "data"
)

// Document is one stored record as seen on the wire.
type Document struct {
	ID   string
	Data json.RawMessage
}

// EncodeData converts a JSON object into a Struct.
func EncodeData(data []byte) (*structpb.Struct, error) {
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return s, nil
}

// DecodeData converts a Struct back into a JSON object.
func DecodeData(s *structpb.Struct) (json.RawMessage, error) {
	if s == nil {
		return json.RawMessage("{}"), nil
	}
	b, err := protojson.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return b, nil
}

// NewRequest builds the Struct sent to Create, Replace and Delete. Empty id
// or nil data are left out.
func NewRequest(collection, id string, data *structpb.Struct) *structpb.Struct {
	fields := map[string]*structpb.Value{
		FieldCollection: structpb.NewStringValue(collection),
	}
	if id != "" {
		fields[FieldID] = structpb.NewStringValue(id)
	}
	if data != nil {
		fields[FieldData] = structpb.NewStructValue(data)
	}
	return &structpb.Struct{Fields: fields}
}

// StringField returns a string field of s, or "" when absent.
func StringField(s *structpb.Struct, name string) string {
	if s == nil {
		return ""
	}
	return s.GetFields()[name].GetStringValue()
}

// StructField returns a nested struct field of s, or nil when absent.
func StructField(s *structpb.Struct, name string) *structpb.Struct {
	if s == nil {
		return nil
	}
	return s.GetFields()[name].GetStructValue()
}

// EncodeDocuments builds the ListAll response.
func EncodeDocuments(docs []Document) (*structpb.ListValue, error) {
	values := make([]*structpb.Value, 0, len(docs))
	for _, d := range docs {
		data, err := EncodeData(d.Data)
		if err != nil {
			return nil, err
		}
		values = append(values, structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			FieldID:   structpb.NewStringValue(d.ID),
			FieldData: structpb.NewStructValue(data),
		}}))
	}
	return &structpb.ListValue{Values: values}, nil
}

// DecodeDocuments reads a ListAll response.
func DecodeDocuments(list *structpb.ListValue) ([]Document, error) {
	docs := make([]Document, 0, len(list.GetValues()))
	for _, v := range list.GetValues() {
		s := v.GetStructValue()
		if s == nil {
			return nil, fmt.Errorf("decode documents: element is not an object")
		}
		data, err := DecodeData(StructField(s, FieldData))
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{ID: StringField(s, FieldID), Data: data})
	}
	return docs, nil
}
