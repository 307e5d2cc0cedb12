package alkamel

import (
	"strings"
	"testing"
)

func TestReadResults_SingleDriverColumns(t *testing.T) {
	data := "NUMBER;TEAM;CLASS;STATUS;VEHICLE;DRIVER_1;DRIVER_2;DRIVER_3;DRIVER_4\n" +
		"8;Toyota Gazoo Racing;HYPERCAR;Classified;Toyota GR010 Hybrid;Sebastien Buemi;Brendon Hartley;Ryo Hirakawa;\n" +
		"51;AF Corse;HYPERCAR;Retired;Ferrari 499P;Alessandro Pier Guidi;James Calado;;\n"

	entries, err := NewReader().ReadResults(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadResults failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	first := entries[0]
	if first.CarNumber != "8" || first.Team != "Toyota Gazoo Racing" {
		t.Errorf("unexpected first entry: %+v", first)
	}
	if first.TeamCodename() != "#8 Toyota Gazoo Racing" {
		t.Errorf("unexpected codename %q", first.TeamCodename())
	}
	if len(first.Drivers) != 3 {
		t.Errorf("expected 3 drivers, got %v", first.Drivers)
	}
	if first.Status != "Classified" || first.Vehicle != "Toyota GR010 Hybrid" {
		t.Errorf("unexpected status/vehicle: %+v", first)
	}

	if len(entries[1].Drivers) != 2 {
		t.Errorf("expected 2 drivers on second entry, got %v", entries[1].Drivers)
	}
}

func TestReadResults_SplitDriverColumns(t *testing.T) {
	data := "NUMBER;TEAM;CLASS;STATUS;VEHICLE;DRIVER1_FIRSTNAME;DRIVER1_SECONDNAME;DRIVER2_FIRSTNAME;DRIVER2_SECONDNAME\n" +
		"7;Team Penske;LMP2;Classified;Oreca 07;Will;Power;Scott;McLaughlin\n"

	entries, err := NewReader().ReadResults(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadResults failed: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	want := []string{"Will Power", "Scott McLaughlin"}
	got := entries[0].Drivers
	if len(got) != len(want) {
		t.Fatalf("expected drivers %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("driver %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestReadResults_BOMHeader(t *testing.T) {
	data := "\uFEFFNUMBER;TEAM;CLASS;STATUS;VEHICLE;DRIVER_1\n" +
		"22;United Autosports;LMP2;Classified;Oreca 07;Phil Hanson\n"

	entries, err := NewReader().ReadResults(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadResults failed: %v", err)
	}
	if len(entries) != 1 || entries[0].CarNumber != "22" {
		t.Errorf("BOM header not handled: %+v", entries)
	}
}

func TestReadResults_MissingRequiredColumn(t *testing.T) {
	data := "NUMBER;TEAM;CLASS;VEHICLE;DRIVER_1\n1;X;Y;Z;A\n"

	_, err := NewReader().ReadResults(strings.NewReader(data))
	if err == nil {
		t.Fatal("expected error for missing STATUS column")
	}
	if !strings.Contains(err.Error(), "STATUS") {
		t.Errorf("expected error to name the missing column, got %v", err)
	}
}

func TestReadResults_MissingDriverColumns(t *testing.T) {
	data := "NUMBER;TEAM;CLASS;STATUS;VEHICLE\n1;X;Y;Classified;Z\n"

	_, err := NewReader().ReadResults(strings.NewReader(data))
	if err == nil {
		t.Fatal("expected error for missing driver columns")
	}
}

func TestReadResults_EmptyFile(t *testing.T) {
	_, err := NewReader().ReadResults(strings.NewReader(""))
	if err == nil {
		t.Fatal("expected error for empty file")
	}
}
