package types

import "testing"

func u32(v uint32) *uint32 { return &v }

func TestTableSubtyping(t *testing.T) {
	cases := []struct {
		name   string
		actual TableType
		want   TableType
		ok     bool
	}{
		{"exact match", TableType{FuncRef, 1, u32(10)}, TableType{FuncRef, 1, u32(10)}, true},
		{"bigger min ok", TableType{FuncRef, 5, nil}, TableType{FuncRef, 1, nil}, true},
		{"smaller min rejected", TableType{FuncRef, 0, nil}, TableType{FuncRef, 1, nil}, false},
		{"tighter max ok", TableType{FuncRef, 1, u32(5)}, TableType{FuncRef, 1, u32(10)}, true},
		{"looser max rejected", TableType{FuncRef, 1, u32(20)}, TableType{FuncRef, 1, u32(10)}, false},
		{"unbounded actual vs bounded request rejected", TableType{FuncRef, 1, nil}, TableType{FuncRef, 1, u32(10)}, false},
		{"bounded actual vs unbounded request ok", TableType{FuncRef, 1, u32(10)}, TableType{FuncRef, 1, nil}, true},
		{"element mismatch", TableType{AnyRef, 1, nil}, TableType{FuncRef, 1, nil}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.actual.IsSubtypeOf(c.want); got != c.ok {
				t.Errorf("IsSubtypeOf() = %v, want %v", got, c.ok)
			}
		})
	}
}

func TestIsA(t *testing.T) {
	ft := FunctionType{Params: []ValueType{I32, I32}, Results: []ValueType{I32}}
	if !IsA(FunctionObjectType(ft), FunctionObjectType(ft)) {
		t.Fatal("identical function types must satisfy IsA")
	}
	other := FunctionType{Params: []ValueType{I32}, Results: []ValueType{I32}}
	if IsA(FunctionObjectType(ft), FunctionObjectType(other)) {
		t.Fatal("different arity must not satisfy IsA")
	}

	mem := MemoryObjectType(MemoryType{MinPages: 2, MaxPages: u32(4)})
	wantMem := MemoryObjectType(MemoryType{MinPages: 1, MaxPages: u32(8)})
	if !IsA(mem, wantMem) {
		t.Fatal("memory satisfying width-subtyping must pass IsA")
	}

	if IsA(FunctionObjectType(ft), mem) {
		t.Fatal("kind mismatch must never satisfy IsA")
	}

	// Module instances, compartments and contexts have no importable type.
	if IsA(ObjectType{Kind: KindModuleInstance}, ObjectType{Kind: KindModuleInstance}) {
		t.Fatal("module instance kind must never satisfy IsA")
	}
}

func TestFunctionTypeKeyStability(t *testing.T) {
	a := FunctionType{Params: []ValueType{I32, F64}, Results: []ValueType{I64}}
	b := FunctionType{Params: []ValueType{I32, F64}, Results: []ValueType{I64}}
	if a.Key() != b.Key() {
		t.Fatal("structurally equal FunctionTypes must have equal keys")
	}
	c := FunctionType{Params: []ValueType{I32, F64}, Results: []ValueType{I32}}
	if a.Key() == c.Key() {
		t.Fatal("different result type must have different key")
	}
}
