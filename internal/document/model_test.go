package document

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	doc, err := Parse([]byte(`{
		"bones": [{"name": "root"}],
		"ik": [{"name": "ik", "bones": ["root"], "target": "root"}],
		"skins": [{"name": "default", "attachments": {"s": {"a": {}}}}],
		"events": {"e": {}}
	}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Skeleton.FPS != 30 {
		t.Errorf("fps = %v, want 30", doc.Skeleton.FPS)
	}
	b := doc.Bones[0]
	if b.ScaleX != 1 || b.ScaleY != 1 || b.Transform != "normal" {
		t.Errorf("bone = %+v", b)
	}
	ik := doc.IK[0]
	if ik.Mix != 1 || !ik.BendPositive {
		t.Errorf("ik = %+v", ik)
	}
	slot, _ := doc.Skins[0].Attachments.Get("s")
	a, ok := slot.Get("a")
	if !ok {
		t.Fatal("attachment a missing")
	}
	if a.Type != "region" || a.ScaleX != 1 || !a.Timelines || !a.ConstantSpeed {
		t.Errorf("attachment = %+v", a)
	}
	if e, _ := doc.Events.Get("e"); e.Volume != 1 {
		t.Errorf("event volume = %v, want 1", e.Volume)
	}
}

func TestObjectKeepsOrder(t *testing.T) {
	var o Object[int]
	if err := json.Unmarshal([]byte(`{"z": 1, "a": 2, "m": 3}`), &o); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	var keys []string
	for _, e := range o {
		keys = append(keys, e.Key)
	}
	if want := []string{"z", "a", "m"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("keys = %v, want %v", keys, want)
	}

	o.Set("a", 5)
	o.Set("b", 6)
	out, err := json.Marshal(o)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if want := `{"z":1,"a":5,"m":3,"b":6}`; string(out) != want {
		t.Errorf("marshal = %s, want %s", out, want)
	}

	var null Object[int]
	if err := json.Unmarshal([]byte(`null`), &null); err != nil || null != nil {
		t.Errorf("null = %v, %v", null, err)
	}
	if err := json.Unmarshal([]byte(`[1]`), &null); err == nil {
		t.Error("array decoded as object")
	}
}

func TestCurve(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Curve
		wantErr bool
	}{
		{name: "stepped", in: `"stepped"`, want: Curve{Stepped: true}},
		{name: "bezier", in: `[0.25, 0, 0.75, 1]`, want: Curve{Bezier: []float64{0.25, 0, 0.75, 1}}},
		{name: "unknown word", in: `"linear"`, wantErr: true},
		{name: "short bezier", in: `[0.25, 0, 0.75]`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Curve
			err := json.Unmarshal([]byte(tt.in), &c)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(c, tt.want) {
				t.Errorf("curve = %+v, want %+v", c, tt.want)
			}
		})
	}
}

func TestSampleDocumentSurvivesJSON(t *testing.T) {
	want := NewSampleDocument()
	data, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sample changed through JSON:\n got %+v\nwant %+v", got, want)
	}
}
