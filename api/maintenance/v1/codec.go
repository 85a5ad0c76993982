package maintenancev1

import (
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"maintenanceManagement/models"
)

// ToStruct converts any JSON-encodable value into a Struct.
func ToStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("to struct: %w", err)
	}
	return s, nil
}

// FromStruct decodes s into v through its JSON form.
func FromStruct(s *structpb.Struct, v any) error {
	if s == nil {
		return errors.New("nil message")
	}
	b, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("from struct: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// WorkOrdersToList encodes a list of work orders.
func WorkOrdersToList(orders []models.WorkOrder) (*structpb.ListValue, error) {
	out := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(orders))}
	for _, o := range orders {
		s, err := ToStruct(o)
		if err != nil {
			return nil, err
		}
		out.Values = append(out.Values, structpb.NewStructValue(s))
	}
	return out, nil
}

// WorkOrdersFromList decodes a list of work orders.
func WorkOrdersFromList(l *structpb.ListValue) ([]models.WorkOrder, error) {
	if l == nil {
		return nil, errors.New("nil list")
	}
	out := make([]models.WorkOrder, 0, len(l.GetValues()))
	for i, v := range l.GetValues() {
		s := v.GetStructValue()
		if s == nil {
			return nil, fmt.Errorf("item %d is not an object", i)
		}
		var o models.WorkOrder
		if err := FromStruct(s, &o); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, o)
	}
	return out, nil
}

// UpdateRequest is the payload of Update.
type UpdateRequest struct {
	ID    int64                 `json:"id"`
	Patch models.WorkOrderPatch `json:"patch"`
}

// DeleteRequest is the payload of Delete.
type DeleteRequest struct {
	ID int64 `json:"id"`
}
