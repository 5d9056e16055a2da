package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"check_in_date",
			"check_out_date",
			"num_of_adults",
			"num_of_children",
			"total_num_of_guests",
			"confirmation_code",
			"room_id",
			"user_id",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"check_in_date": bson.M{
				"bsonType": "date",
			},

			"check_out_date": bson.M{
				"bsonType": "date",
			},

			"num_of_adults": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},

			"num_of_children": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"total_num_of_guests": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},

			"confirmation_code": bson.M{
				"bsonType": "string",
				"pattern":  "^[A-Z0-9]{10}$",
			},

			"room_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
