package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

func decodeStringList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func decodeUintList(raw datatypes.JSON) []uint {
	if len(raw) == 0 {
		return nil
	}
	var out []uint
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func decodeFloatMap(raw datatypes.JSON) map[string]float64 {
	if len(raw) == 0 {
		return nil
	}
	var out map[string]float64
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// MustJSON marshals v into a jsonb column value. It is used when building
// models from already-validated in-memory data, where a marshal failure
// would indicate a programming error.
func MustJSON(v any) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return datatypes.JSON(raw)
}
