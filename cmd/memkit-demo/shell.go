package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/pavanmanishd/memkit/scene"
)

const commandUsage = `  populate             fill the grid until the pool is full
  spawn NAME X Y Z     spawn a named entity
  parent CHILD PARENT  attach CHILD under PARENT
  where NAME           print an entity's world position
  remove NAME          remove a named entity
  churn N              remove and respawn N entities
  stats                print pool and name index statistics
`

var errUsage = errors.New("usage")

// shell evaluates console commands against a scene.
type shell struct {
	scene  *scene.Scene
	mu     *sync.Mutex
	log    *slog.Logger
	radius float32
	step   float32
	serial int
}

func (sh *shell) eval(line string) (string, error) {
	sh.mu.Lock()
	defer sh.mu.Unlock()

	args := strings.Fields(line)
	switch args[0] {
	case "populate":
		n, err := sh.scene.Populate(sh.radius, sh.step)
		if err != nil {
			return "", err
		}
		sh.log.Info("populated", "spawned", n, "live", sh.scene.Len())
		return "", nil

	case "spawn":
		if len(args) != 5 {
			return "", fmt.Errorf("%w: spawn NAME X Y Z", errUsage)
		}
		var pos [3]float32
		for i, s := range args[2:] {
			f, err := strconv.ParseFloat(s, 32)
			if err != nil {
				return "", fmt.Errorf("spawn: coordinate %q: %w", s, err)
			}
			pos[i] = float32(f)
		}
		e, err := sh.scene.Spawn(scene.Entity{
			Name: args[1],
			Transform: scene.Transform{
				Translation: scene.Vec3{X: pos[0], Y: pos[1], Z: pos[2]},
				Scale:       scene.Vec3{X: 1, Y: 1, Z: 1},
			},
			Color: scene.Vec3{X: 0.5, Y: 0.8, Z: 0.5},
		})
		if err != nil {
			return "", err
		}
		sh.log.Info("spawned", "name", e.Name)
		return "", nil

	case "parent":
		if len(args) != 3 {
			return "", fmt.Errorf("%w: parent CHILD PARENT", errUsage)
		}
		child, err := sh.lookup(args[1])
		if err != nil {
			return "", err
		}
		parent, err := sh.lookup(args[2])
		if err != nil {
			return "", err
		}
		for p := parent; p != nil; p = p.Parent {
			if p == child {
				return "", fmt.Errorf("parent: %s is an ancestor of %s", child.Name, parent.Name)
			}
		}
		child.Parent = parent
		return "", nil

	case "where":
		if len(args) != 2 {
			return "", fmt.Errorf("%w: where NAME", errUsage)
		}
		e, err := sh.lookup(args[1])
		if err != nil {
			return "", err
		}
		p := e.WorldPosition()
		return fmt.Sprintf("%s\t%g\t%g\t%g", e.Name, p.X, p.Y, p.Z), nil

	case "remove":
		if len(args) != 2 {
			return "", fmt.Errorf("%w: remove NAME", errUsage)
		}
		e, err := sh.lookup(args[1])
		if err != nil {
			return "", err
		}
		return "", sh.scene.Remove(e)

	case "churn":
		if len(args) != 2 {
			return "", fmt.Errorf("%w: churn N", errUsage)
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return "", fmt.Errorf("churn: %w", err)
		}
		return "", sh.churnLocked(n)

	case "stats":
		return fmt.Sprintf("%s %s", sh.scene.Metrics(), sh.scene.Names().Stats()), nil
	}
	return "", fmt.Errorf("unknown command %q", args[0])
}

func (sh *shell) lookup(name string) (*scene.Entity, error) {
	e, ok := sh.scene.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("no entity named %q", name)
	}
	return e, nil
}

// churn removes the first n entities in draw order and spawns n named
// replacements, reusing the freed pool slots.
func (sh *shell) churn(n int) error {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.churnLocked(n)
}

func (sh *shell) churnLocked(n int) error {
	victims := make([]*scene.Entity, 0, n)
	for e := range sh.scene.Entities() {
		if len(victims) == n {
			break
		}
		victims = append(victims, e)
	}
	for _, e := range victims {
		if err := sh.scene.Remove(e); err != nil {
			return err
		}
	}
	for range len(victims) {
		sh.serial++
		if _, err := sh.scene.Spawn(scene.Entity{
			Name:      "churn-" + strconv.Itoa(sh.serial),
			Transform: scene.Identity,
		}); err != nil {
			return err
		}
	}
	sh.log.Debug("churned", "removed", len(victims), "live", sh.scene.Len())
	return nil
}
