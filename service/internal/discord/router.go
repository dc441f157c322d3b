package discord

import (
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

// Custom IDs have the form "dice:<kind>:<id>:<action>". Everything before the
// action is the route key; each open challenge or duel owns one key.
const (
	customIDPrefix = "dice"
	kindChallenge  = "challenge"
	kindBid        = "bid"

	actionAccept  = "accept"
	actionDecline = "decline"
	actionSelect  = "select"

	routeBuffer = 8
)

func routeKey(kind, id string) string {
	return customIDPrefix + ":" + kind + ":" + id
}

func customID(key, action string) string {
	return key + ":" + action
}

func bidRouteKey(roundID uuid.UUID) string {
	return routeKey(kindBid, roundID.String())
}

// splitCustomID returns the route key and action of a component custom ID.
func splitCustomID(id string) (key, action string, ok bool) {
	i := strings.LastIndexByte(id, ':')
	if i < 0 || !strings.HasPrefix(id, customIDPrefix+":") {
		return "", "", false
	}
	key, action = id[:i], id[i+1:]
	if strings.Count(key, ":") != 2 || action == "" {
		return "", "", false
	}
	return key, action, true
}

// router hands component interactions to the goroutine that owns their key.
type router struct {
	mu     sync.Mutex
	routes map[string]chan *discordgo.InteractionCreate
}

func newRouter() *router {
	return &router{routes: make(map[string]chan *discordgo.InteractionCreate)}
}

// open registers key and returns its delivery channel.
func (r *router) open(key string) <-chan *discordgo.InteractionCreate {
	ch := make(chan *discordgo.InteractionCreate, routeBuffer)
	r.mu.Lock()
	r.routes[key] = ch
	r.mu.Unlock()
	return ch
}

// close unregisters key. Later interactions for it are not delivered.
func (r *router) close(key string) {
	r.mu.Lock()
	delete(r.routes, key)
	r.mu.Unlock()
}

// dispatch delivers i to its owner. It returns false if no one owns the key
// or the owner is backed up.
func (r *router) dispatch(i *discordgo.InteractionCreate) bool {
	key, _, ok := splitCustomID(i.MessageComponentData().CustomID)
	if !ok {
		return false
	}
	r.mu.Lock()
	ch, ok := r.routes[key]
	r.mu.Unlock()
	if !ok {
		return false
	}
	select {
	case ch <- i:
		return true
	default:
		return false
	}
}

func (r *router) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.routes)
}
