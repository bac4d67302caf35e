package checksum

import "testing"

func TestSum(t *testing.T) {
	a := Sum([]byte("### V1.0\nhello"))
	if len(a) != Size {
		t.Fatalf("len = %d", len(a))
	}
	if a != Sum([]byte("### V1.0\nhello")) {
		t.Error("Sum must be deterministic")
	}
	if a == Sum([]byte("### V1.0\nhello!")) {
		t.Error("different content should differ")
	}
}

func TestCombine_OrderAndBoundaries(t *testing.T) {
	if Combine("a", "b") == Combine("b", "a") {
		t.Error("order should matter")
	}
	if Combine("ab", "c") == Combine("a", "bc") {
		t.Error("part boundaries should matter")
	}
	if len(Combine()) != Size {
		t.Error("empty combine should still be a fingerprint")
	}
}
