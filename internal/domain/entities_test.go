package domain

import (
	"reflect"
	"testing"
)

func TestGenrePrefsUnset(t *testing.T) {
	p := NewGenrePrefs(nil)
	if !p.IsUnset() {
		t.Fatalf("ожидали незаданные предпочтения")
	}
	if p.AllDisabled() {
		t.Fatalf("незаданные предпочтения не считаются отказом от всех жанров")
	}
	if p.Active() != nil {
		t.Fatalf("ожидали nil для незаданных предпочтений")
	}
}

func TestGenrePrefsEmptyMapIsUnset(t *testing.T) {
	p := NewGenrePrefs(map[string]bool{})
	if !p.IsUnset() {
		t.Fatalf("пустая карта означает отсутствие фильтра")
	}
}

func TestGenrePrefsActive(t *testing.T) {
	p := NewGenrePrefs(map[string]bool{"sports": true, "finance": false, "science": true})
	if p.IsUnset() {
		t.Fatalf("ожидали явные предпочтения")
	}
	got := p.Active()
	want := []string{"science", "sports"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ожидали %v, получили %v", want, got)
	}
}

func TestGenrePrefsAllDisabled(t *testing.T) {
	p := NewGenrePrefs(map[string]bool{"sports": false, "finance": false})
	if !p.AllDisabled() {
		t.Fatalf("все жанры выключены — пользователь отказался от рассылки")
	}
	if len(p.Active()) != 0 {
		t.Fatalf("не ожидали активных жанров")
	}
}

func TestGenrePrefsMapIsolated(t *testing.T) {
	src := map[string]bool{"sports": true}
	p := NewGenrePrefs(src)
	src["sports"] = false
	if !reflect.DeepEqual(p.Map(), map[string]bool{"sports": true}) {
		t.Fatalf("предпочтения должны копировать исходную карту")
	}
}
