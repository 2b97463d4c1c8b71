package encoding

import (
	"encoding/binary"
	"reflect"
	"sync"
	"unsafe"

	"github.com/modern-go/reflect2"
)

var decodeProcess sync.Map

// Decode reads a packed little-endian image back into val, which must
// be a pointer to a struct. This is the coprocessor-side view: firmware
// handed a shared buffer address reconstructs the table behind it.
func Decode(stream Stream, val any) error {
	rtype := reflect2.RTypeOf(val)
	var data *handlerData
	if v, ok := decodeProcess.Load(rtype); ok {
		data = v.(*handlerData)
	} else {
		typ := reflect.TypeOf(val)
		if typ.Kind() != reflect.Pointer {
			panic("decode target must be a pointer")
		}
		unmarshal, size := decode(typ.Elem())
		data = &handlerData{unmarshal, size.Size()}
		decodeProcess.Store(rtype, data)
	}
	return data.handler(stream, reflect2.PtrOf(val))
}

func decode(typ reflect.Type) (handler, structSize) {
	switch typ.Kind() {
	case reflect.Bool, reflect.Int8, reflect.Uint8:
		return func(stream Stream, ptr unsafe.Pointer) error {
			_, err := stream.Read(unsafe.Slice((*byte)(ptr), 1))
			return err
		}, structSize{1}
	case reflect.Int16, reflect.Uint16:
		return func(stream Stream, ptr unsafe.Pointer) error {
			var b [2]byte
			if _, err := stream.Read(b[:]); err != nil {
				return err
			}
			*(*uint16)(ptr) = binary.LittleEndian.Uint16(b[:])
			return nil
		}, structSize{2}
	case reflect.Int32, reflect.Uint32:
		return func(stream Stream, ptr unsafe.Pointer) error {
			var b [4]byte
			if _, err := stream.Read(b[:]); err != nil {
				return err
			}
			*(*uint32)(ptr) = binary.LittleEndian.Uint32(b[:])
			return nil
		}, structSize{4}
	case reflect.Int64, reflect.Uint64:
		return func(stream Stream, ptr unsafe.Pointer) error {
			var b [8]byte
			if _, err := stream.Read(b[:]); err != nil {
				return err
			}
			*(*uint64)(ptr) = binary.LittleEndian.Uint64(b[:])
			return nil
		}, structSize{8}
	case reflect.Array:
		return decodeArray(typ)
	case reflect.Struct:
		return decodeStruct(typ)
	}
	panic("unsupported type")
}

func decodeArray(typ reflect.Type) (handler, structSize) {
	count := typ.Len()
	if typ.Elem().Kind() == reflect.Uint8 {
		return func(stream Stream, ptr unsafe.Pointer) error {
			_, err := stream.Read(unsafe.Slice((*byte)(ptr), count))
			return err
		}, structSize{count}
	}
	unmarshal, elemSize := decode(typ.Elem())
	stride := typ.Elem().Size()
	return func(stream Stream, ptr unsafe.Pointer) error {
		for i := 0; i < count; i++ {
			err := unmarshal(stream, unsafe.Add(ptr, uintptr(i)*stride))
			if err != nil {
				return err
			}
		}
		return nil
	}, structSize{elemSize.Size() * count}
}

func decodeStruct(typ reflect.Type) (handler, structSize) {
	count := typ.NumField()
	size := make(structSize, 0, count)
	fields := make([]*structData, 0, count)
	for field := range rangeField(typ) {
		if field.Tag.Get("layout") == "ignore" {
			continue
		}
		unmarshal, fieldSize := decode(field.Type)
		size = size.Add(fieldSize)
		fields = append(fields, &structData{unmarshal, int(field.Offset)})
	}
	return func(stream Stream, ptr unsafe.Pointer) error {
		for _, data := range fields {
			err := data.handler(stream, unsafe.Add(ptr, data.offset))
			if err != nil {
				return err
			}
		}
		return nil
	}, size
}
