package osc

const zero = string(byte(0))

// nulls returns a string of `i` nulls.
func nulls(i int) string {
	s := ""
	for j := 0; j < i; j++ {
		s += zero
	}
	return s
}

type testCase struct {
	name    string
	obj     *Message
	raw     []byte
	wantErr bool
}

// messageTestCases encode to raw and decode back to obj.
var messageTestCases = []testCase{
	{
		"no_args",
		&Message{Address: "/a"},
		[]byte("/a" + nulls(2) + "," + nulls(3)),
		false,
	},
	{
		"float",
		NewMessage("/fader1", float32(0.5)),
		[]byte("/fader1" + nulls(1) + ",f" + nulls(2) + "\x3f\x00\x00\x00"),
		false,
	},
	{
		"int",
		NewMessage("/button1", int32(1)),
		[]byte("/button1" + nulls(4) + ",i" + nulls(2) + "\x00\x00\x00\x01"),
		false,
	},
	{
		"negative_int",
		NewMessage("/radio2", int32(-2)),
		[]byte("/radio2" + nulls(1) + ",i" + nulls(2) + "\xff\xff\xff\xfe"),
		false,
	},
	{
		"string",
		NewMessage("/label3", "Gain"),
		[]byte("/label3" + nulls(1) + ",s" + nulls(2) + "Gain" + nulls(4)),
		false,
	},
	{
		"bools_and_nil",
		NewMessage("/x", true, false, nil),
		[]byte("/x" + nulls(2) + ",TFN" + nulls(4)),
		false,
	},
	{
		"blob",
		NewMessage("/b", []byte{1, 2, 3}),
		[]byte("/b" + nulls(2) + ",b" + nulls(2) + "\x00\x00\x00\x03" + "\x01\x02\x03\x00"),
		false,
	},
	{
		"array",
		NewMessage("/modify_control", "fader", int32(1), []interface{}{"a", "b"}),
		[]byte("/modify_control" + nulls(1) + ",si[ss]" + nulls(1) +
			"fader" + nulls(3) + "\x00\x00\x00\x01" + "a" + nulls(3) + "b" + nulls(3)),
		false,
	},
	{
		"nested_array",
		NewMessage("/n", []interface{}{int32(1), []interface{}{true}}),
		[]byte("/n" + nulls(2) + ",[i[T]]" + nulls(1) + "\x00\x00\x00\x01"),
		false,
	},
	{
		"empty_array",
		NewMessage("/e", []interface{}{}),
		[]byte("/e" + nulls(2) + ",[]" + nulls(1)),
		false,
	},
}
