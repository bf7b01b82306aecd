package commerce

import "go.mongodb.org/mongo-driver/bson/primitive"

// DecodeID converts an external identifier into a store reference. Only the
// 24 character hexadecimal ObjectID form is accepted.
func DecodeID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, newError(ErrInvalidIdentifier, "Invalid ObjectId format: %s", raw)
	}
	return id, nil
}

// DecodeIDs decodes every identifier or fails on the first malformed one.
func DecodeIDs(raws []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(raws))
	for _, raw := range raws {
		id, err := DecodeID(raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// EncodeIDs renders store references as external identifiers.
func EncodeIDs(ids []interface{}) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if oid, ok := id.(primitive.ObjectID); ok {
			out = append(out, oid.Hex())
		}
	}
	return out
}
