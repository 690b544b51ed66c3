// Package mapper implements result mapping to Go structs.
package mapper

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// ResultMapper maps shaped rows to Go structs. Nested maps fill struct or pointer-to-struct
// fields and slices of maps fill slice fields, so included navigations map like columns.
type ResultMapper struct{}

// NewResultMapper creates a new result mapper.
func NewResultMapper() *ResultMapper {
	return &ResultMapper{}
}

// MapToStruct maps a single row to a struct.
func (m *ResultMapper) MapToStruct(row map[string]interface{}, dest interface{}) error {
	destValue := reflect.ValueOf(dest)
	if destValue.Kind() != reflect.Ptr || destValue.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("dest must be a pointer to struct")
	}
	return m.mapStruct(row, destValue.Elem())
}

// MapToStructSlice maps multiple rows to a slice of structs or struct pointers.
func (m *ResultMapper) MapToStructSlice(rows []map[string]interface{}, dest interface{}) error {
	destValue := reflect.ValueOf(dest)
	if destValue.Kind() != reflect.Ptr || destValue.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("dest must be a pointer to slice")
	}
	return m.mapSlice(rows, destValue.Elem())
}

func (m *ResultMapper) mapSlice(rows []map[string]interface{}, slice reflect.Value) error {
	sliceType := slice.Type()
	elemType := sliceType.Elem()
	isPtr := elemType.Kind() == reflect.Ptr
	if isPtr {
		elemType = elemType.Elem()
	}
	if elemType.Kind() != reflect.Struct {
		return fmt.Errorf("slice element must be a struct, got %s", elemType)
	}

	out := reflect.MakeSlice(sliceType, 0, len(rows))
	for _, row := range rows {
		elem := reflect.New(elemType)
		if err := m.mapStruct(row, elem.Elem()); err != nil {
			return err
		}
		if isPtr {
			out = reflect.Append(out, elem)
		} else {
			out = reflect.Append(out, elem.Elem())
		}
	}
	slice.Set(out)
	return nil
}

func (m *ResultMapper) mapStruct(row map[string]interface{}, dest reflect.Value) error {
	destType := dest.Type()
	for i := 0; i < destType.NumField(); i++ {
		field := destType.Field(i)
		fieldValue := dest.Field(i)
		if !fieldValue.CanSet() {
			continue
		}

		columnName := m.getColumnName(field)
		if columnName == "-" {
			continue
		}
		value, ok := row[columnName]
		if !ok {
			if value, ok = m.findValueCaseInsensitive(row, columnName); !ok {
				continue
			}
		}

		if err := m.setFieldValue(fieldValue, value); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}
	return nil
}

// getColumnName gets the column name for a struct field: the db tag, then the json tag, then
// the field name.
func (m *ResultMapper) getColumnName(field reflect.StructField) string {
	if tag := field.Tag.Get("db"); tag != "" {
		return tag
	}
	if tag := field.Tag.Get("json"); tag != "" && tag != "-" {
		if name, _, _ := strings.Cut(tag, ","); name != "" {
			return name
		}
	}
	return field.Name
}

// findValueCaseInsensitive finds a value in the map case-insensitively.
func (m *ResultMapper) findValueCaseInsensitive(row map[string]interface{}, key string) (interface{}, bool) {
	for k, v := range row {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

// setFieldValue sets a field value with type conversion.
func (m *ResultMapper) setFieldValue(field reflect.Value, value interface{}) error {
	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	fieldType := field.Type()

	switch v := value.(type) {
	case map[string]interface{}:
		switch {
		case fieldType.Kind() == reflect.Struct:
			return m.mapStruct(v, field)
		case fieldType.Kind() == reflect.Ptr && fieldType.Elem().Kind() == reflect.Struct:
			ptr := reflect.New(fieldType.Elem())
			if err := m.mapStruct(v, ptr.Elem()); err != nil {
				return err
			}
			field.Set(ptr)
			return nil
		}
		return fmt.Errorf("cannot map nested entity to %s", fieldType)
	case []map[string]interface{}:
		if fieldType.Kind() != reflect.Slice {
			return fmt.Errorf("cannot map collection to %s", fieldType)
		}
		return m.mapSlice(v, field)
	}

	valueReflect := reflect.ValueOf(value)

	if fieldType.Kind() == reflect.Ptr {
		ptr := reflect.New(fieldType.Elem())
		if err := m.setFieldValue(ptr.Elem(), value); err != nil {
			return err
		}
		field.Set(ptr)
		return nil
	}

	if valueReflect.Type().AssignableTo(fieldType) {
		field.Set(valueReflect)
		return nil
	}

	switch fieldType.Kind() {
	case reflect.String:
		field.SetString(fmt.Sprintf("%v", value))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var intVal int64
		switch v := value.(type) {
		case int64:
			intVal = v
		case int32:
			intVal = int64(v)
		case int:
			intVal = int64(v)
		case uint64:
			intVal = int64(v)
		case float64:
			intVal = int64(v)
		case string:
			parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return fmt.Errorf("cannot convert %q to int: %w", v, err)
			}
			intVal = parsed
		default:
			return fmt.Errorf("cannot convert %T to int", value)
		}
		field.SetInt(intVal)

	case reflect.Float32, reflect.Float64:
		var floatVal float64
		switch v := value.(type) {
		case float64:
			floatVal = v
		case float32:
			floatVal = float64(v)
		case int64:
			floatVal = float64(v)
		case string:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return fmt.Errorf("cannot convert %q to float: %w", v, err)
			}
			floatVal = parsed
		default:
			return fmt.Errorf("cannot convert %T to float", value)
		}
		field.SetFloat(floatVal)

	case reflect.Bool:
		switch v := value.(type) {
		case bool:
			field.SetBool(v)
		case int64:
			field.SetBool(v != 0)
		default:
			return fmt.Errorf("cannot convert %T to bool", value)
		}

	default:
		return fmt.Errorf("unsupported field type: %s", fieldType)
	}

	return nil
}
