package dto

import (
	"encoding/json"
	"testing"
)

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "epoch millis number", input: `1724868000000`, want: 1724868000000},
		{name: "float millis", input: `1724868000000.0`, want: 1724868000000},
		{name: "rfc3339", input: `"2024-08-28T18:00:00Z"`, want: 1724868000000},
		{name: "iso without zone", input: `"2024-08-28T18:00:00"`, want: 1724868000000},
		{name: "space separated", input: `"2024-08-28 18:00:00"`, want: 1724868000000},
		{name: "date only", input: `"2024-08-28"`, want: 1724803200000},
		{name: "garbage string", input: `"not a date"`, wantErr: true},
		{name: "bool", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			err := json.Unmarshal([]byte(tt.input), &ts)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %s, got %d", tt.input, ts.Millis())
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if ts.Millis() != tt.want {
				t.Errorf("got %d, want %d", ts.Millis(), tt.want)
			}
		})
	}
}

func TestMealRequest_Validate(t *testing.T) {
	onDiet := false
	eatedAt := Timestamp(1724868000000)

	valid := MealRequest{
		Name:        "Hamburger",
		Description: "With fries",
		IsOnDiet:    &onDiet,
		EatedAt:     &eatedAt,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid request rejected: %v", err)
	}

	// isOnDiet=false must pass required: the field is present.
	tests := []struct {
		name    string
		mutate  func(r *MealRequest)
		message string
	}{
		{name: "missing name", mutate: func(r *MealRequest) { r.Name = "" }, message: `field "Name" is required`},
		{name: "missing description", mutate: func(r *MealRequest) { r.Description = "" }, message: `field "Description" is required`},
		{name: "missing flag", mutate: func(r *MealRequest) { r.IsOnDiet = nil }, message: `field "IsOnDiet" is required`},
		{name: "missing timestamp", mutate: func(r *MealRequest) { r.EatedAt = nil }, message: `field "EatedAt" is required`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if got := ValidationMessage(err); got != tt.message {
				t.Errorf("message = %q, want %q", got, tt.message)
			}
		})
	}
}

func TestCreateUserRequest_Validate(t *testing.T) {
	valid := CreateUserRequest{Name: "John Doe", Email: "johndoe@doe.com"}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid request rejected: %v", err)
	}

	missing := CreateUserRequest{Email: "johndoe@doe.com"}
	if err := missing.Validate(); err == nil {
		t.Error("expected error for missing name")
	}

	malformed := CreateUserRequest{Name: "John", Email: "not-an-email"}
	err := malformed.Validate()
	if err == nil {
		t.Fatal("expected error for malformed email")
	}
	if got := ValidationMessage(err); got != `field "Email" must be a valid email address` {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestToMealsResponse_EmptyListMarshalsAsArray(t *testing.T) {
	data, err := json.Marshal(ToMealsResponse(nil))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"meals":[]}` {
		t.Errorf("unexpected payload: %s", data)
	}
}
