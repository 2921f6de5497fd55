package tpspace

import (
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"go.viam.com/ptgnav/logging"
	"go.viam.com/ptgnav/utils"
)

// A CreatePTG creates a PTG from a given attribute map.
type CreatePTG func(attrs utils.AttributeMap, logger logging.Logger, opts ...Option) (PTG, error)

var (
	registryMu  sync.RWMutex
	ptgRegistry = map[string]registration{}
)

type registration struct {
	family  string
	creator CreatePTG
}

func init() {
	RegisterPTG("C", fromAttributes(NewCirclePTG))
	RegisterPTG("CC", fromAttributes(NewCCPTG))
	RegisterPTG("CCS", fromAttributes(NewCCSPTG))
	RegisterPTG("CS", fromAttributes(NewCSPTG))
	RegisterPTG("Alpha", fromAttributes(NewAlphaPTG))
	RegisterPTG("Spin", fromAttributes(NewSpinPTG))
}

// RegisterPTG registers a PTG family to a creator. Family identifiers are case-insensitive.
func RegisterPTG(family string, creator CreatePTG) {
	registryMu.Lock()
	defer registryMu.Unlock()
	key := strings.ToLower(family)
	if _, old := ptgRegistry[key]; old {
		panic(errors.Errorf("trying to register two PTG families with same name %s", family))
	}
	if creator == nil {
		panic(errors.Errorf("cannot register a nil creator for PTG family %s", family))
	}
	ptgRegistry[key] = registration{family: family, creator: creator}
}

// RegisteredFamilies returns the identifiers of every registered PTG family, sorted.
func RegisteredFamilies() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	families := make([]string, 0, len(ptgRegistry))
	for _, reg := range ptgRegistry {
		families = append(families, reg.family)
	}
	sort.Strings(families)
	return families
}

// NewPTG builds a PTG of the given family from its attributes. An unknown family or bad attributes fail with a
// *utils.ConfigValidationError.
func NewPTG(family string, attrs utils.AttributeMap, logger logging.Logger, opts ...Option) (PTG, error) {
	registryMu.RLock()
	reg, ok := ptgRegistry[strings.ToLower(family)]
	registryMu.RUnlock()
	if !ok {
		return nil, utils.NewConfigValidationError("family",
			errors.Errorf("unknown PTG family %q, expected one of %v", family, RegisteredFamilies()))
	}
	if logger == nil {
		logger = logging.NewBlankLogger("tpspace")
	}
	return reg.creator(attrs, logger.Sublogger(strings.ToLower(reg.family)), opts...)
}

// fromAttributes adapts a typed constructor into a CreatePTG, decoding the attribute map into its config type.
func fromAttributes[T any](newPTG func(T, logging.Logger, ...Option) (DiffDrivePTG, error)) CreatePTG {
	return func(attrs utils.AttributeMap, logger logging.Logger, opts ...Option) (PTG, error) {
		conf, unused, err := utils.TransformAttributeMap[T](attrs)
		if err != nil {
			return nil, utils.NewConfigValidationError("", err)
		}
		if len(unused) > 0 {
			logger.Warnw("ignoring unknown PTG attributes", "attributes", unused)
		}
		ptg, err := newPTG(conf, logger, opts...)
		if err != nil {
			return nil, err
		}
		return ptg, nil
	}
}
