package encoding

import (
	"encoding/binary"
	"iter"
	"reflect"
	"sync"
	"unsafe"

	"github.com/modern-go/reflect2"
)

// handler serializes one value at ptr into the stream.
type handler = func(Stream, unsafe.Pointer) error

type handlerData struct {
	handler handler
	size    int
}

type structData struct {
	handler handler
	offset  int
}

var encodeProcess sync.Map

// SizeOf returns the packed size of val's type on the target. The
// resolver takes section sizes as input; for the mailbox tables this is
// where those sizes come from.
func SizeOf(val any) int {
	return getEncodeData(val).size
}

// Encode writes val's packed little-endian image. val may be a struct
// or a pointer to one.
func Encode(stream Stream, val any) error {
	data := getEncodeData(val)
	return data.handler(stream, reflect2.PtrOf(val))
}

func getEncodeData(val any) *handlerData {
	rtype := reflect2.RTypeOf(val)
	if v, ok := encodeProcess.Load(rtype); ok {
		return v.(*handlerData)
	}
	typ := reflect.TypeOf(val)
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	marshal, size := encode(typ)
	data := &handlerData{marshal, size.Size()}
	encodeProcess.Store(rtype, data)
	return data
}

func encode(typ reflect.Type) (handler, structSize) {
	switch typ.Kind() {
	case reflect.Bool, reflect.Int8, reflect.Uint8:
		return func(stream Stream, ptr unsafe.Pointer) error {
			_, err := stream.Write(unsafe.Slice((*byte)(ptr), 1))
			return err
		}, structSize{1}
	case reflect.Int16, reflect.Uint16:
		return func(stream Stream, ptr unsafe.Pointer) error {
			var b [2]byte
			binary.LittleEndian.PutUint16(b[:], *(*uint16)(ptr))
			_, err := stream.Write(b[:])
			return err
		}, structSize{2}
	case reflect.Int32, reflect.Uint32:
		return func(stream Stream, ptr unsafe.Pointer) error {
			var b [4]byte
			binary.LittleEndian.PutUint32(b[:], *(*uint32)(ptr))
			_, err := stream.Write(b[:])
			return err
		}, structSize{4}
	case reflect.Int64, reflect.Uint64:
		return func(stream Stream, ptr unsafe.Pointer) error {
			var b [8]byte
			binary.LittleEndian.PutUint64(b[:], *(*uint64)(ptr))
			_, err := stream.Write(b[:])
			return err
		}, structSize{8}
	case reflect.Array:
		return encodeArray(typ)
	case reflect.Struct:
		return encodeStruct(typ)
	}
	panic("unsupported type")
}

func encodeArray(typ reflect.Type) (handler, structSize) {
	count := typ.Len()
	if typ.Elem().Kind() == reflect.Uint8 {
		return func(stream Stream, ptr unsafe.Pointer) error {
			_, err := stream.Write(unsafe.Slice((*byte)(ptr), count))
			return err
		}, structSize{count}
	}
	marshal, elemSize := encode(typ.Elem())
	stride := typ.Elem().Size()
	return func(stream Stream, ptr unsafe.Pointer) error {
		for i := 0; i < count; i++ {
			err := marshal(stream, unsafe.Add(ptr, uintptr(i)*stride))
			if err != nil {
				return err
			}
		}
		return nil
	}, structSize{elemSize.Size() * count}
}

// encodeStruct lays fields out back to back. The target tables are
// packed C structs, so no padding is ever inserted between fields.
func encodeStruct(typ reflect.Type) (handler, structSize) {
	count := typ.NumField()
	size := make(structSize, 0, count)
	fields := make([]*structData, 0, count)
	for field := range rangeField(typ) {
		if field.Tag.Get("layout") == "ignore" {
			continue
		}
		marshal, fieldSize := encode(field.Type)
		size = size.Add(fieldSize)
		fields = append(fields, &structData{marshal, int(field.Offset)})
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

func rangeField(typ reflect.Type) iter.Seq[reflect.StructField] {
	return func(yield func(reflect.StructField) bool) {
		count := typ.NumField()
		for i := 0; i < count; i++ {
			if !yield(typ.Field(i)) {
				break
			}
		}
	}
}
