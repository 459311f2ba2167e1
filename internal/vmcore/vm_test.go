package vmcore

import "testing"

func encodePush(n int32) []byte {
	u := uint32(n)
	return []byte{byte(OpPush), byte(u), byte(u >> 8), byte(u >> 16), byte(u >> 24)}
}

func TestRunPushAdd(t *testing.T) {
	vm, err := Create(Config{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	code := append(encodePush(2), encodePush(3)...)
	code = append(code, byte(OpAdd), byte(OpExit))

	idx, err := vm.RegisterWord("add", code)
	if err != nil {
		t.Fatalf("RegisterWord: %v", err)
	}

	if err := vm.Run(idx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if depth := vm.DSDepth(); depth != 1 {
		t.Fatalf("DSDepth = %d, want 1", depth)
	}
	out := make([]int32, 1)
	vm.DSCopyToArray(out, 1)
	if out[0] != 5 {
		t.Fatalf("result = %d, want 5", out[0])
	}
}

func TestRunToRFromR(t *testing.T) {
	vm, err := Create(Config{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	code := append(encodePush(42), byte(OpToR), byte(OpFromR), byte(OpExit))
	idx, err := vm.RegisterWord("roundtrip", code)
	if err != nil {
		t.Fatalf("RegisterWord: %v", err)
	}

	if err := vm.Run(idx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if vm.DSDepth() != 1 || vm.RSDepth() != 0 {
		t.Fatalf("ds depth=%d rs depth=%d, want 1/0", vm.DSDepth(), vm.RSDepth())
	}
}

func TestRunUnknownWord(t *testing.T) {
	vm, err := Create(Config{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := vm.Run(99); err == nil {
		t.Fatal("Run on unknown word index should error")
	}
}

func TestDSClearAndPush(t *testing.T) {
	vm, err := Create(Config{DSCapacity: 4})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i := int32(0); i < 4; i++ {
		if err := vm.DSPush(i); err != nil {
			t.Fatalf("DSPush(%d): %v", i, err)
		}
	}
	if err := vm.DSPush(99); err == nil {
		t.Fatal("DSPush past capacity should overflow")
	}

	vm.DSClear()
	if vm.DSDepth() != 0 {
		t.Fatalf("DSDepth after clear = %d, want 0", vm.DSDepth())
	}
}
