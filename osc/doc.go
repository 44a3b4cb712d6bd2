// Copyright 2013 - 2015 Sebastian Ruml <sebastian.ruml@gmail.com>
// Copyright 2021 - 2022 Mendel Greenberg <mendel@chabad360.me>

//Package osc encodes and decodes OpenSoundControl messages and moves them over UDP and TCP.
//
//This implementation is based on the Open Sound Control 1.0 Specification (http://opensoundcontrol.org/spec-1_0.html).
//
//Features
//
//- Supports OSC messages with the following TypeTags:
//
//	'i' (int32)
//	'f' (float32)
//	's' (string)
//	'b' ([]byte)
//	'T' (true)
//	'F' (false)
//	'N' (nil)
//	'[' ... ']' (array, as []interface{})
//
//- Go integers within the int32 range are sent as int32 and float64 is narrowed
//to float32. Integers outside the int32 range, and values of any other type,
//are sent as their string representation.
//
//- Decoding skips unknown type tags without failing the message.
//
//Bundles and time tags are not supported.
//
//Arrays are decoded structurally from the '[' and ']' tags. An array whose ']'
//is missing extends to the end of the type tag string; a truncated array cannot
//be told apart from a short one.
//
//Transports
//
//Client sends one message per UDP datagram. Server reads datagrams and hands the
//raw bytes to a HandlerFunc. StreamConn carries SLIP framed messages (see package
//slip) over a reliable byte stream, as described by OSC 1.1.
//
//Usage
//
//OSC client example:
//  client, _ := osc.Dial("localhost:8765")
//  msg := osc.NewMessage("/fader1")
//  msg.Append(float32(0.5))
//  client.Send(msg)
//
//OSC server example:
//  d := &osc.Dispatcher{}
//  d.AddMethodFunc("/fader1", func(msg *osc.Message) {
//      fmt.Println(msg)
//  })
//
//  server := &osc.Server{
//      Addr: "127.0.0.1:8765",
//      Handler: func(data []byte, _ net.Addr) {
//          if msg, err := osc.NewMessageFromData(data); err == nil {
//              d.Dispatch(msg)
//          }
//      },
//  }
//  server.ListenAndServe()
package osc
