package osc

import (
	"testing"
)

func TestDispatcher_AddMethodFunc(t *testing.T) {
	type args struct {
		addr   string
		method MethodFunc
	}
	tests := []struct {
		name    string
		methods map[string]Method
		args    args
		wantErr bool
	}{
		{"valid", nil, args{"/address/test", func(_ *Message) {}}, false},
		{"invalid", nil, args{"/address*/test", func(_ *Message) {}}, true},
		{"no_slash", nil, args{"fadeTimeFader1", func(_ *Message) {}}, true},
		{"already_exists", map[string]Method{"/address/test": MethodFunc(func(_ *Message) {})}, args{"/address/test", func(_ *Message) {}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Dispatcher{
				methods: tt.methods,
			}
			if err := d.AddMethodFunc(tt.args.addr, tt.args.method); (err != nil) != tt.wantErr {
				t.Errorf("AddMethodFunc() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDispatcher_Dispatch(t *testing.T) {
	var got []string
	record := func(tag string) MethodFunc {
		return func(msg *Message) {
			got = append(got, tag+" "+msg.Address)
		}
	}

	d := &Dispatcher{}
	if err := d.AddMethodFunc("/fadeTimeFader1", record("fade")); err != nil {
		t.Fatal(err)
	}
	if err := d.AddMethodFunc("/Randomize/RandomAmount1", record("amount")); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		addr    string
		handled bool
		want    string
	}{
		{"exact", "/fadeTimeFader1", true, "fade /fadeTimeFader1"},
		{"nested", "/Randomize/RandomAmount1", true, "amount /Randomize/RandomAmount1"},
		{"no_prefix_match", "/fadeTimeFader", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = nil
			if handled := d.Dispatch(NewMessage(tt.addr)); handled != tt.handled {
				t.Errorf("Dispatch() = %v, want %v", handled, tt.handled)
			}
			if tt.handled && (len(got) != 1 || got[0] != tt.want) {
				t.Errorf("Dispatch() ran %v, want %q", got, tt.want)
			}
		})
	}

	d.SetFallback(record("fallback"))
	got = nil
	if !d.Dispatch(NewMessage("/fader3")) || len(got) != 1 || got[0] != "fallback /fader3" {
		t.Errorf("fallback not used: %v", got)
	}
}
