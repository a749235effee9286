package msgpack

// MSGPACK_VERSION is the MessagePack wire specification revision this
// decoder implements.
const MSGPACK_VERSION = 5
