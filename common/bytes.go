package common

import "unsafe"

// SliceToBytes reinterprets a slice of plain-old-data values as the bytes uploaded to a GPU buffer.
// The returned slice aliases data; it must not outlive or be modified independently of it.
//
// Parameters:
//   - data: source slice of fixed-size values
//
// Returns:
//   - []byte: byte view of data, or nil when data is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(SizeOf[T]())*len(data))
}

// StructToBytes reinterprets a single value as its raw bytes.
//
// Parameters:
//   - v: pointer to the value
//
// Returns:
//   - []byte: byte view of *v with length SizeOf[T]()
func StructToBytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(SizeOf[T]()))
}

// SizeOf returns the in-memory size of T in bytes, the stride used for GPU array layouts.
func SizeOf[T any]() uint64 {
	var zero T
	return uint64(unsafe.Sizeof(zero))
}
