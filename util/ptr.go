package util

// Collection of helper functions for converting constant values into pointers
// to memory containing a copy of that value. Optional upstream readings are
// carried as pointers so that "not reported" differs from zero.

func Int64Ptr(i int64) *int64 {
	r := int64(i)
	return &r
}

func Float64Ptr(f float64) *float64 {
	r := float64(f)
	return &r
}

func StringPtr(s string) *string {
	r := string(s)
	return &r
}
