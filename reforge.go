package main

import (
	"flag"

	"github.com/fsnotify/fsnotify"

	"github.com/reforge/reforge/config"
	"github.com/reforge/reforge/export"
	"github.com/reforge/reforge/host"
	"github.com/reforge/reforge/scenefile"
	"github.com/reforge/reforge/utils"
)

func main() {
	var scenePath, configPath, outRoot, collectionName, protoID string
	var protosOnly, dump, watch bool
	flag.StringVar(&scenePath, "scene", "", "Path to scene description file")
	flag.StringVar(&configPath, "config", "", "Path to settings file (defaults used if empty)")
	flag.StringVar(&outRoot, "out", "", "Defold project root override")
	flag.StringVar(&collectionName, "collection", "", "Collection name override")
	flag.StringVar(&protoID, "proto", "", "Export a single prototype by id")
	flag.BoolVar(&protosOnly, "protos-only", false, "Export prototype assets without regenerating the collection")
	flag.BoolVar(&dump, "dump", false, "Dump the loaded scene model before exporting")
	flag.BoolVar(&watch, "watch", false, "Re-export whenever the scene file changes")
	flag.Parse()

	logger := export.Logger()

	if scenePath == "" {
		flag.PrintDefaults()
		return
	}

	settings := config.Default()
	if configPath != "" {
		var err error
		settings, err = config.Load(configPath)
		if err != nil {
			logger.Fatalf("%v", err)
		}
	}
	if outRoot != "" {
		settings.ProjectRoot = outRoot
	}
	if collectionName != "" {
		settings.CollectionName = collectionName
	}

	run := func() error {
		scene, err := scenefile.Load(scenePath)
		if err != nil {
			return err
		}
		if dump {
			utils.Dump(scene.Objects())
		}

		e := export.New(settings, scene)
		switch {
		case protoID != "":
			obj := findByPrototype(scene, protoID)
			if obj == nil {
				logger.Errorf("no object with prototype %q", protoID)
				return nil
			}
			proto, err := e.ExportPrototype(obj)
			if err != nil {
				return err
			}
			logger.Infof("exported prototype %q", proto)
		case protosOnly:
			if _, err := e.ExportAllPrototypes(); err != nil {
				return err
			}
		default:
			if _, err := e.ExportScene(); err != nil {
				return err
			}
		}
		return nil
	}

	if err := run(); err != nil {
		logger.Fatalf("%v", err)
	}
	if !watch {
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Fatalf("watch: %v", err)
	}
	defer watcher.Close()
	if err := watcher.Add(scenePath); err != nil {
		logger.Fatalf("watch %q: %v", scenePath, err)
	}
	logger.Infof("watching %s", scenePath)

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			logger.Infof("scene changed, re-exporting")
			if err := run(); err != nil {
				// Keep watching: the next save may fix the scene.
				logger.Errorf("%v", err)
			}
			// Editors replace files on save; re-add in case the inode changed.
			watcher.Add(scenePath)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Errorf("watch: %v", werr)
		}
	}
}

func findByPrototype(scene host.Scene, id string) host.Object {
	want := utils.SanitizeID(id)
	for _, obj := range scene.Objects() {
		if obj.Kind() != host.KindMesh {
			continue
		}
		if utils.SanitizeID(host.PropString(obj, export.PropPrototype)) == want {
			return obj
		}
	}
	return nil
}
