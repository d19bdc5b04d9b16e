package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/reforge/reforge/bake"
	"github.com/reforge/reforge/collision"
	"github.com/reforge/reforge/config"
	"github.com/reforge/reforge/defoldfmt"
	"github.com/reforge/reforge/host"
	"github.com/reforge/reforge/materials"
	"github.com/reforge/reforge/meshexport"
	"github.com/reforge/reforge/utils"
)

const PropPrototype = "defold_prototype"

type Exporter struct {
	Settings *config.Settings
	Scene    host.Scene
	Log      *log.Logger
}

func New(settings *config.Settings, scene host.Scene) *Exporter {
	return &Exporter{Settings: settings, Scene: scene, Log: Logger()}
}

func (e *Exporter) logger() *log.Logger {
	if e.Log != nil {
		return e.Log
	}
	return Logger()
}

func (e *Exporter) validateRoot() error {
	root := e.Settings.ProjectRoot
	if root == "" {
		return errors.New("project root is empty or not found")
	}
	st, err := os.Stat(root)
	if err != nil || !st.IsDir() {
		return errors.Errorf("project root %q is not a directory", root)
	}
	return nil
}

// ExportPrototype regenerates every shared asset of one prototype from its
// representative object: the .glb mesh, the .model file, optional collision
// files and baked textures, plus the .go prototype definition which is
// created once and never overwritten afterwards. Returns the sanitized
// prototype id.
func (e *Exporter) ExportPrototype(obj host.Object) (string, error) {
	s := e.Settings
	if err := e.validateRoot(); err != nil {
		return "", err
	}
	if obj == nil || obj.Kind() != host.KindMesh || obj.Mesh() == nil {
		return "", errors.Errorf("object %q is not a mesh", objName(obj))
	}
	protoRaw := host.PropString(obj, PropPrototype)
	if protoRaw == "" {
		return "", errors.Errorf("object %q has no %q custom property", obj.Name(), PropPrototype)
	}
	proto := utils.SanitizeID(protoRaw)
	mesh := obj.Mesh()

	absModels := filepath.Join(s.ProjectRoot, s.ModelsDir)
	absPrefabs := filepath.Join(s.ProjectRoot, s.PrefabsDir)
	absTextures := filepath.Join(s.ProjectRoot, s.TexturesDir)
	absCollisions := filepath.Join(s.ProjectRoot, s.CollisionsDir)

	needsBake := false
	for _, m := range materials.UniqueMaterials(mesh) {
		if bake.Requested(m) {
			needsBake = true
			break
		}
	}

	for _, dir := range []string{absModels, absPrefabs, absCollisions} {
		if err := utils.EnsureDir(dir); err != nil {
			return "", errors.Wrapf(err, "ensure %q", dir)
		}
	}
	if s.ExportTextures || needsBake {
		if err := utils.EnsureDir(absTextures); err != nil {
			return "", errors.Wrapf(err, "ensure %q", absTextures)
		}
	}

	absGlb := filepath.Join(absModels, proto+".glb")
	absModel := filepath.Join(absModels, proto+".model")
	absGo := filepath.Join(absPrefabs, proto+".go")

	glbProjectPath := "/" + s.ModelsDir + "/" + proto + ".glb"
	modelProjectPath := "/" + s.ModelsDir + "/" + proto + ".model"

	// Regenerated outputs are deleted up front; the .go definition is the
	// only created-once file and survives every run.
	utils.SafeRemoveFile(absGlb)
	utils.SafeRemoveFile(absModel)
	utils.SafeRemoveFile(filepath.Join(absCollisions, proto+".convexshape"))
	utils.SafeRemoveFile(filepath.Join(absCollisions, proto+".collisionobject"))

	if err := meshexport.ExportGLB(mesh, proto, absGlb); err != nil {
		return "", errors.Wrapf(err, "export mesh for %q", proto)
	}

	resolver := &materials.Resolver{Settings: s, Log: e.logger()}
	bindings, err := resolver.Resolve(obj, mesh)
	if err != nil {
		return "", errors.Wrapf(err, "resolve materials for %q", proto)
	}

	blocks := make([]defoldfmt.MaterialBlock, 0, len(bindings))
	for _, b := range bindings {
		if bake.Requested(b.Source) {
			if ref, ok := e.bakeBinding(obj, proto, b, absTextures); ok {
				b.Texture = ref
			}
		}
		blocks = append(blocks, defoldfmt.MaterialBlock{
			Name:     b.Name,
			Material: b.Material,
			Texture:  b.Texture,
		})
	}

	if err := utils.WriteTextFile(absModel, defoldfmt.ModelText(glbProjectPath, proto, blocks)); err != nil {
		return "", errors.Wrapf(err, "write %q", absModel)
	}

	collisionObjectProjectPath := ""
	if collision.Enabled(obj) {
		absConvex := filepath.Join(absCollisions, proto+".convexshape")
		absColObj := filepath.Join(absCollisions, proto+".collisionobject")
		convexProjectPath := "/" + s.CollisionsDir + "/" + proto + ".convexshape"

		written, err := collision.WriteConvexShape(obj, absConvex)
		if err != nil {
			return "", errors.Wrapf(err, "export collision for %q", proto)
		}
		if written {
			body := defoldfmt.CollisionObjectText(convexProjectPath, collision.Group(obj), collision.Mask(obj))
			if err := utils.WriteTextFile(absColObj, body); err != nil {
				return "", errors.Wrapf(err, "write %q", absColObj)
			}
			collisionObjectProjectPath = "/" + s.CollisionsDir + "/" + proto + ".collisionobject"
		}
	}

	if !utils.FileExists(absGo) {
		text := defoldfmt.GameObjectText(modelProjectPath, collisionObjectProjectPath)
		if err := utils.WriteTextFile(absGo, text); err != nil {
			return "", errors.Wrapf(err, "write %q", absGo)
		}
	}

	return proto, nil
}

// bakeBinding synthesizes the binding's color texture. Returns the project
// texture reference and true on success; on failure the caller keeps the
// unbaked reference.
func (e *Exporter) bakeBinding(obj host.Object, proto string, b materials.Binding, absTextures string) (string, bool) {
	s := e.Settings
	opt := bake.Options{
		Resolution: host.PropInt(b.Source, bake.PropResolution, s.BakeResolution),
		Padding:    host.PropInt(b.Source, bake.PropPadding, s.BakePadding),
	}
	bakedName := fmt.Sprintf("%s__%s_albedo.png", proto, utils.SanitizeID(b.Name))
	bakedAbs := filepath.Join(absTextures, bakedName)

	// Overwrite instead of accumulating suffixed copies.
	utils.SafeRemoveFile(bakedAbs)

	if err := bake.BakeColor(e.Scene, obj, b.Source, bakedAbs, opt, e.logger()); err != nil {
		e.logger().Warnf("bake failed for material %q of %q, keeping unbaked texture: %v", b.Name, proto, err)
		return "", false
	}
	return "/" + s.TexturesDir + "/" + bakedName, true
}

func objName(obj host.Object) string {
	if obj == nil {
		return "<nil>"
	}
	return obj.Name()
}
