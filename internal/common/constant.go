package common

// Namespace prefixes every addressable-record identifier tag, so that
// application records from different clients sharing the same event kind
// do not collide: ["d", "mutestr:<category>"].
const Namespace = "mutestr"
