package builtins

import "fmt"

func argCountErrorf(name string, want, got int) error {
	return fmt.Errorf("%s expects %d argument(s), got %d", name, want, got)
}

func argTypeErrorf(name string, index int, want, got string) error {
	return fmt.Errorf("%s argument %d: expected %s, got %s", name, index, want, got)
}

func valueRangeErrorf(name string, start, end int64, length int) error {
	return fmt.Errorf("%s: range [%d, %d) out of bounds for length %d", name, start, end, length)
}

func conversionErrorf(name, input string) error {
	return fmt.Errorf("%s: cannot convert %q", name, input)
}
