package export

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/reforge/reforge/defoldfmt"
	"github.com/reforge/reforge/host"
	"github.com/reforge/reforge/transform"
	"github.com/reforge/reforge/utils"
)

// groups enumerates eligible objects and buckets them by sanitized
// prototype id, keeping scene order inside each bucket. The returned id
// list is sorted.
func (e *Exporter) groups() (map[string][]host.Object, []string, error) {
	s := e.Settings
	buckets := make(map[string][]host.Object)
	for _, obj := range e.Scene.Objects() {
		if obj.Kind() != host.KindMesh || obj.Mesh() == nil {
			continue
		}
		if s.ExportVisibleOnly && !obj.Visible() {
			continue
		}
		protoRaw := host.PropString(obj, PropPrototype)
		if protoRaw == "" {
			continue
		}
		proto := utils.SanitizeID(protoRaw)
		buckets[proto] = append(buckets[proto], obj)
	}
	if len(buckets) == 0 {
		return nil, nil, errors.Errorf("no mesh objects with %q found (with current visibility filter)", PropPrototype)
	}
	ids := make([]string, 0, len(buckets))
	for id := range buckets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return buckets, ids, nil
}

// ExportAllPrototypes regenerates the shared assets of every prototype in
// the scene without touching the collection. The first failing prototype
// aborts the whole batch.
func (e *Exporter) ExportAllPrototypes() (int, error) {
	buckets, ids, err := e.groups()
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		if _, err := e.ExportPrototype(buckets[id][0]); err != nil {
			return 0, errors.Wrapf(err, "prototype %q", id)
		}
	}
	e.logger().Infof("exported assets for %d prototypes", len(ids))
	return len(ids), nil
}

// ExportScene runs the full pipeline: per-prototype assets from each
// group's representative, then the collection file placing every instance.
// Returns the absolute path of the generated collection.
func (e *Exporter) ExportScene() (string, error) {
	s := e.Settings
	if err := e.validateRoot(); err != nil {
		return "", err
	}

	absScenes := filepath.Join(s.ProjectRoot, s.ScenesDir)
	if err := utils.EnsureDir(absScenes); err != nil {
		return "", errors.Wrapf(err, "ensure %q", absScenes)
	}

	buckets, ids, err := e.groups()
	if err != nil {
		return "", err
	}

	protoToGo := make(map[string]string, len(ids))
	for _, id := range ids {
		if _, err := e.ExportPrototype(buckets[id][0]); err != nil {
			return "", errors.Wrapf(err, "prototype %q", id)
		}
		protoToGo[id] = "/" + s.PrefabsDir + "/" + id + ".go"
	}

	instances := make(map[string][]defoldfmt.Instance, len(ids))
	total := 0
	for _, id := range ids {
		for i, obj := range buckets[id] {
			trs := transform.ToTargetTRS(obj.WorldTransform())
			instances[id] = append(instances[id], defoldfmt.Instance{
				ID:        fmt.Sprintf("%s_%03d", id, i+1),
				Prototype: protoToGo[id],
				Position:  trs.Position,
				Rotation:  trs.Rotation,
				Scale:     trs.Scale,
			})
			total++
		}
	}

	text := defoldfmt.CollectionText(s.CollectionName, ids, instances)
	absCollection := filepath.Join(absScenes, s.CollectionName+".collection")
	utils.SafeRemoveFile(absCollection)
	if err := utils.WriteTextFile(absCollection, text); err != nil {
		return "", errors.Wrapf(err, "write %q", absCollection)
	}

	e.logger().Infof("exported %d prototypes, %d instances -> %s", len(ids), total, absCollection)
	return absCollection, nil
}
