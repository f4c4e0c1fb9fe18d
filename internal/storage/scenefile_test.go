package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/scenecore/internal/animation"
	"github.com/san-kum/scenecore/internal/scene"
	"github.com/san-kum/scenecore/internal/vmath"
)

func buildScene() *scene.Scene {
	w := scene.New()
	parent := w.CreateEntity("parent")
	parent.Transform.Position = vmath.V3(1, 2, 3)
	parent.Attach(scene.NewRigidBody(2))

	child := w.CreateEntity("child")
	child.Transform.Position = vmath.V3(0, 1, 0)
	child.Attach(scene.NewCollider(scene.ShapeSphere))
	if err := w.SetParent(child, parent); err != nil {
		panic(err)
	}

	clip := animation.NewClip("bob")
	clip.AddKeyframe(animation.PosY, 0, 0)
	clip.AddKeyframe(animation.PosY, 1, 2)
	child.Animation.AddClip(clip)
	child.Animation.Play("bob")
	return w
}

func TestSceneFileRoundTrip(t *testing.T) {
	for _, name := range []string{"scene.yaml", "scene.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			src := buildScene()

			saved, err := SaveScene(path, src)
			if err != nil {
				t.Fatalf("save failed: %v", err)
			}

			dst := scene.New()
			loaded, err := LoadScene(path, dst)
			if err != nil {
				t.Fatalf("load failed: %v", err)
			}
			if saved != loaded {
				t.Errorf("digest mismatch: saved %x, loaded %x", saved, loaded)
			}
			if dst.Len() != 2 {
				t.Fatalf("expected 2 entities, got %d", dst.Len())
			}

			child, ok := dst.Find("child")
			if !ok {
				t.Fatal("child not found")
			}
			if child.Parent() == nil || child.Parent().Name != "parent" {
				t.Error("child lost its parent")
			}
			if got := child.WorldPosition(); got != vmath.V3(1, 3, 3) {
				t.Errorf("expected world position (1,3,3), got %v", got)
			}
			if !child.Animation.IsPlaying() || child.Animation.Current() != "bob" {
				t.Error("expected autoplay clip bob")
			}
			if _, ok := scene.Get[*scene.Collider](child); !ok {
				t.Error("collider missing")
			}
		})
	}
}

func TestDigestIgnoresFormat(t *testing.T) {
	src := buildScene()
	dir := t.TempDir()

	yamlDigest, err := SaveScene(filepath.Join(dir, "a.yml"), src)
	if err != nil {
		t.Fatal(err)
	}
	jsonDigest, err := SaveScene(filepath.Join(dir, "a.json"), src)
	if err != nil {
		t.Fatal(err)
	}
	if yamlDigest != jsonDigest {
		t.Errorf("expected equal digests, got %x and %x", yamlDigest, jsonDigest)
	}
}

func TestLoadSceneRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	data := []byte("version: 1\nentities:\n  - id: 1\n    name: a\n    geometry: teapot\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	w := buildScene()
	if _, err := LoadScene(path, w); err == nil {
		t.Fatal("expected error for unknown geometry")
	}
	if w.Len() != 2 {
		t.Errorf("expected scene untouched, got %d entities", w.Len())
	}
}

func TestDecodeSceneRejectsNewerVersion(t *testing.T) {
	_, err := DecodeScene([]byte(`{"version": 99, "entities": []}`), FormatJSON)
	if err == nil {
		t.Error("expected version error")
	}
}

func TestFormatFor(t *testing.T) {
	tests := map[string]Format{
		"a.json": FormatJSON,
		"a.JSON": FormatJSON,
		"a.yaml": FormatYAML,
		"a.yml":  FormatYAML,
		"a":      FormatYAML,
	}
	for path, want := range tests {
		if got := FormatFor(path); got != want {
			t.Errorf("FormatFor(%q) = %s, want %s", path, got, want)
		}
	}
}
