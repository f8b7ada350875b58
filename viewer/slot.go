package viewer

import (
	"errors"

	"github.com/oliverbestmann/showcase/scene"
)

var ErrAssetAlreadySet = errors.New("asset already set")

// AssetSlot holds the loaded model. It starts empty and is populated at
// most once; it is never cleared.
type AssetSlot struct {
	node *scene.Node
}

func (s *AssetSlot) Set(node *scene.Node) error {
	if node == nil {
		return errors.New("asset node must not be nil")
	}

	if s.node != nil {
		return ErrAssetAlreadySet
	}

	s.node = node
	return nil
}

func (s *AssetSlot) Get() (*scene.Node, bool) {
	return s.node, s.node != nil
}

func (s *AssetSlot) Loaded() bool {
	return s.node != nil
}
