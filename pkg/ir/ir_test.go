package ir

import "testing"

func TestPoolEntryName(t *testing.T) {
	tests := []struct {
		fn   string
		idx  int
		want string
	}{
		{"main", 0, "_c_const_main_0"},
		{"lol", 3, "_c_const_lol_3"},
		{"f", 12, "_c_const_f_12"},
	}
	for _, tt := range tests {
		if got := PoolEntryName(tt.fn, tt.idx); got != tt.want {
			t.Errorf("PoolEntryName(%q, %d) = %q, want %q", tt.fn, tt.idx, got, tt.want)
		}
	}
}

func TestIsPoolName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"_c_const_lol_1", true},
		{"_c_const_", true},
		{"_c_const", false},
		{"pi", false},
		{"c_const_main_0", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsPoolName(tt.name); got != tt.want {
			t.Errorf("IsPoolName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestProgramFindFunc(t *testing.T) {
	p := &Program{}
	f := &Func{Name: "main"}
	f.Add(OpPush, "%rbp")
	p.Funcs = append(p.Funcs, f)

	if got := p.FindFunc("main"); got != f {
		t.Errorf("FindFunc(main) = %v, want the registered function", got)
	}
	if got := p.FindFunc("missing"); got != nil {
		t.Errorf("FindFunc(missing) = %v, want nil", got)
	}
	if len(f.Instructions) != 1 || f.Instructions[0].Op != OpPush {
		t.Errorf("Add did not append the instruction: %+v", f.Instructions)
	}
}
